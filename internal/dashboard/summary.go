package dashboard

import (
	"fmt"
	"html/template"
	"strings"

	"evodash/internal/aggregate"
	"evodash/internal/chart"

	"github.com/gomarkdown/markdown"
)

// SummaryView is the summary panel of one pass: headline statistics plus
// rendered overview text.
type SummaryView struct {
	aggregate.Summary
	TimePeriod string        `json:"time_period"`
	Overview   template.HTML `json:"overview"`
}

// NewSummaryView renders the overview for s.
func NewSummaryView(s aggregate.Summary) SummaryView {
	return SummaryView{
		Summary:    s,
		TimePeriod: s.TimePeriod(),
		Overview:   renderMarkdown(OverviewMarkdown(s)),
	}
}

// OverviewMarkdown describes the filtered subset in a short paragraph.
func OverviewMarkdown(s aggregate.Summary) string {
	if s.Empty() {
		return "No records match the current filters. Widen the time threshold or choose **All** species and regions."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The current selection covers **%d** species across **%d** regions, ", s.SpeciesCount, s.RegionCount)
	fmt.Fprintf(&b, "reaching back **%.1f** million years.\n\n", s.MaxTime)
	fmt.Fprintf(&b, "Average cranial capacity is **%.1f cc** and average height is **%.1f cm**. ", s.MeanCranialCapacity, s.MeanHeight)
	b.WriteString("Both tend to increase toward the present, and tooth size follows diet.\n")
	return b.String()
}

// insights are the fixed explanatory notes under each panel.
var insights = map[string]string{
	chart.PanelBar:       "Species frequency per **zone**. Zones with more records tend to be the better excavated ones.",
	chart.PanelPie:       "Share of records per **location**, highlighting continents with a high concentration of finds.",
	chart.PanelBubble:    "Diet against jaw shape, with bubble size following **incisor size**. Click a bubble to select its species.",
	chart.PanelButterfly: "Mean **cranial capacity** (left) against mean **height** (right) per species.",
	chart.PanelTreemap:   "Record counts nested by **habitat** and species.",
	chart.PanelMap:       "Records per present-day **country**; darker means more finds.",
	chart.PanelLine:      "Mean time at which each **incisor** and **canine** size category appears.",
	chart.PanelStacked:   "Record times stacked per **technology** type, colored by species.",
	chart.PanelTimeline:  "Earliest appearance of each species; longer stems mean more records.",
	chart.PanelTree:      "The Hominini phylogeny. This panel does not follow the filters.",
}

// Insight returns the rendered note for a panel, or "" when it has none.
func Insight(panel string) template.HTML {
	md, ok := insights[panel]
	if !ok {
		return ""
	}
	return renderMarkdown(md)
}

func renderMarkdown(md string) template.HTML {
	return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
}
