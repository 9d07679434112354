// Package dashboard coordinates a filter change into a full pass over every
// chart panel: filter, aggregate, render, highlight and summarize.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"evodash/adapters/geo"
	"evodash/domain/species"
	"evodash/internal"
	"evodash/internal/aggregate"
	"evodash/internal/chart"
	"evodash/internal/errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultDimOpacity is applied to non-selected species-keyed elements.
const DefaultDimOpacity = 0.3

// PassReport describes one completed coordination pass.
type PassReport struct {
	ID       uuid.UUID           `json:"id"`
	State    species.FilterState `json:"state"`
	Records  int                 `json:"records"`
	Failures map[string]string   `json:"failures,omitempty"` // panel -> error
	Duration time.Duration       `json:"duration"`
	At       time.Time           `json:"at"`
}

// OK reports whether every panel rendered.
func (r *PassReport) OK() bool { return len(r.Failures) == 0 }

// Notifier is told about every completed pass, outside the controller lock.
type Notifier interface {
	PassCompleted(report *PassReport)
}

// Options configures a Controller.
type Options struct {
	DimOpacity float64 // 0 means DefaultDimOpacity
	Notifier   Notifier
	Logger     *internal.Logger
}

type renderFunc func(set *aggregate.Set, m *chart.Mount) error

type panel struct {
	spec   chart.PanelSpec
	render renderFunc
}

// Controller owns the filter state and every panel mount. Passes are
// serialized; readers never observe a half-drawn pass.
type Controller struct {
	mu sync.RWMutex

	store  *species.Store
	world  *geo.World
	mounts map[string]*chart.Mount
	panels []panel

	state   species.FilterState
	set     *aggregate.Set
	summary SummaryView
	last    *PassReport

	dim      float64
	notifier Notifier
	logger   *internal.Logger
}

// New builds a controller over a loaded store. world may be nil, in which
// case the map panel shows only its legend. No pass is run until the first
// OnFilterChange.
func New(store *species.Store, world *geo.World, opts Options) *Controller {
	if opts.DimOpacity <= 0 || opts.DimOpacity > 1 {
		opts.DimOpacity = DefaultDimOpacity
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	c := &Controller{
		store:    store,
		world:    world,
		mounts:   chart.NewMounts(),
		state:    store.DefaultFilter(),
		set:      aggregate.Compute(nil),
		dim:      opts.DimOpacity,
		notifier: opts.Notifier,
		logger:   opts.Logger.With("dashboard"),
	}
	c.summary = NewSummaryView(c.set.Summary)
	c.panels = c.layout()
	return c
}

// layout binds each panel of chart.Layout to the aggregate it draws.
func (c *Controller) layout() []panel {
	draw := map[string]renderFunc{
		chart.PanelBar:       func(s *aggregate.Set, m *chart.Mount) error { return chart.BarChart(s.Zones, m) },
		chart.PanelPie:       func(s *aggregate.Set, m *chart.Mount) error { return chart.PieChart(s.Locations, m) },
		chart.PanelBubble:    func(s *aggregate.Set, m *chart.Mount) error { return chart.BubbleChart(s.Bubbles, m) },
		chart.PanelButterfly: func(s *aggregate.Set, m *chart.Mount) error { return chart.ButterflyChart(s.Traits, m) },
		chart.PanelTreemap:   func(s *aggregate.Set, m *chart.Mount) error { return chart.Treemap(s.Habitats, m) },
		chart.PanelMap:       func(s *aggregate.Set, m *chart.Mount) error { return chart.Choropleth(c.world, s.Countries, m) },
		chart.PanelLine:      func(s *aggregate.Set, m *chart.Mount) error { return chart.LineChart(s.Tooth, m) },
		chart.PanelStacked:   func(s *aggregate.Set, m *chart.Mount) error { return chart.StackedBar(s.Stacks, m) },
		chart.PanelTimeline:  func(s *aggregate.Set, m *chart.Mount) error { return chart.Timeline(s.Timeline, m) },
		chart.PanelTree:      func(_ *aggregate.Set, m *chart.Mount) error { return chart.Tree(chart.HomininiTree(), m) },
	}
	out := make([]panel, 0, len(chart.Layout))
	for _, spec := range chart.Layout {
		out = append(out, panel{spec: spec, render: draw[spec.Name]})
	}
	return out
}

// OnFilterChange validates and applies a new filter state and runs a full
// pass. Unknown species or regions are rejected with CodeInvalidInput; the
// time threshold is clamped into the observed range.
func (c *Controller) OnFilterChange(ctx context.Context, state species.FilterState) (*PassReport, error) {
	if state.Species != "" && !c.store.HasSpecies(state.Species) {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown species %q", state.Species))
	}
	if state.Region != "" && !c.store.HasRegion(state.Region) {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown region %q", state.Region))
	}
	return c.apply(ctx, func(species.FilterState) species.FilterState { return state })
}

// Select handles a click on a species-keyed element: the selected species
// replaces the current one and the other filters are kept. An empty name
// selects All.
func (c *Controller) Select(ctx context.Context, name string) (*PassReport, error) {
	if name != "" && !c.store.HasSpecies(name) {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown species %q", name))
	}
	return c.apply(ctx, func(current species.FilterState) species.FilterState {
		return species.SelectSpecies(current, name)
	})
}

func (c *Controller) apply(ctx context.Context, next func(species.FilterState) species.FilterState) (*PassReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	report := c.pass(next(c.state))
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.PassCompleted(report)
	}
	return report, nil
}

// pass runs with c.mu held.
func (c *Controller) pass(state species.FilterState) *PassReport {
	start := time.Now()
	c.state = c.store.Clamp(state)
	subset := c.store.Filter(c.state)

	for _, p := range c.panels {
		if p.spec.Keyed {
			c.mounts[p.spec.Name].ResetHighlights()
		}
	}

	c.set = aggregate.Compute(subset)

	report := &PassReport{ID: uuid.New(), State: c.state, Records: len(subset), At: start}
	for _, p := range c.panels {
		if err := c.renderPanel(p); err != nil {
			if report.Failures == nil {
				report.Failures = make(map[string]string)
			}
			report.Failures[p.spec.Name] = err.Error()
			renderFailures.WithLabelValues(p.spec.Name).Inc()
			c.logger.Warn("panel %s failed: %v", p.spec.Name, err)
		}
	}

	if c.state.SpeciesSelected() {
		for _, p := range c.panels {
			if p.spec.Keyed {
				c.mounts[p.spec.Name].Highlight(c.state.Species, c.dim)
			}
		}
	}

	c.summary = NewSummaryView(c.set.Summary)
	report.Duration = time.Since(start)
	c.last = report

	passesTotal.Inc()
	passDuration.Observe(report.Duration.Seconds())
	filteredRecords.Set(float64(report.Records))
	c.logger.Debug("pass %s: %s, %d records, %d failures in %s",
		report.ID, c.state, report.Records, len(report.Failures), report.Duration)
	return report
}

// renderPanel isolates one renderer. On error or panic the mount is left
// empty.
func (c *Controller) renderPanel(p panel) (err error) {
	m := c.mounts[p.spec.Name]
	timer := prometheus.NewTimer(panelDuration.WithLabelValues(p.spec.Name))
	defer timer.ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			m.Unmount()
			err = errors.RenderError(p.spec.Name, err)
		}
	}()
	if p.render == nil {
		return fmt.Errorf("no renderer")
	}
	return p.render(c.set, m)
}

// Snapshot is a consistent view of the dashboard after the last pass.
type Snapshot struct {
	State         species.FilterState `json:"state"`
	SpeciesOption []string            `json:"species_options"`
	RegionOption  []string            `json:"region_options"`
	MinTime       float64             `json:"min_time"`
	MaxTime       float64             `json:"max_time"`
	Summary       SummaryView         `json:"summary"`
	Panels        []chart.PanelSpec   `json:"panels"`
	LastPass      *PassReport         `json:"last_pass,omitempty"`
}

// Snapshot returns the current state, options and summary.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	min, max := c.store.TimeRange()
	return Snapshot{
		State:         c.state,
		SpeciesOption: c.store.SpeciesOptions(),
		RegionOption:  c.store.RegionOptions(),
		MinTime:       min,
		MaxTime:       max,
		Summary:       c.summary,
		Panels:        c.Panels(),
		LastPass:      c.last,
	}
}

// State returns the current filter state.
func (c *Controller) State() species.FilterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Aggregates returns the aggregate set of the last pass. The set is replaced,
// never modified, by later passes.
func (c *Controller) Aggregates() *aggregate.Set {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// Panels lists the panels in layout order.
func (c *Controller) Panels() []chart.PanelSpec {
	return append([]chart.PanelSpec(nil), chart.Layout...)
}

// SVG writes one panel's current drawing.
func (c *Controller) SVG(w io.Writer, name string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.mounts[name]
	if !ok {
		return errors.NotFound("panel " + name)
	}
	return chart.WriteSVG(w, m)
}

