package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"evodash/domain/species"
	"evodash/internal/chart"
	"evodash/internal/dashboard"
	"evodash/internal/errors"

	"github.com/gin-gonic/gin"
)

// panelView is one panel of the index page.
type panelView struct {
	chart.PanelSpec
	SVG     template.HTML
	Insight template.HTML
}

// filterRequest is the body of POST /api/filter, as JSON or form values.
// A missing time keeps the current threshold.
type filterRequest struct {
	Species string   `json:"species" form:"species"`
	Region  string   `json:"region" form:"region"`
	Time    *float64 `json:"time" form:"time"`
}

type selectRequest struct {
	Species string `json:"species" form:"species"`
}

// handleIndex renders the page with every panel inline.
func (s *Server) handleIndex(c *gin.Context) {
	snap := s.dashboard.Snapshot()
	panels := make([]panelView, 0, len(snap.Panels))
	for _, p := range snap.Panels {
		var buf bytes.Buffer
		if err := s.dashboard.SVG(&buf, p.Name); err != nil {
			s.logger.Warn("panel %s: %v", p.Name, err)
		}
		panels = append(panels, panelView{
			PanelSpec: p,
			SVG:       template.HTML(buf.String()),
			Insight:   dashboard.Insight(p.Name),
		})
	}
	s.renderTemplate(c, "index.html", gin.H{
		"Snapshot": snap,
		"Panels":   panels,
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) handleFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBind(&req); err != nil {
		s.writeError(c, errors.InvalidInput("malformed filter: "+err.Error()))
		return
	}
	state := species.FilterState{Species: req.Species, Region: req.Region}
	if req.Time != nil {
		state.TimeThreshold = *req.Time
	} else {
		state.TimeThreshold = s.dashboard.State().TimeThreshold
	}

	if _, err := s.dashboard.OnFilterChange(c.Request.Context(), state); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) handleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		s.writeError(c, errors.InvalidInput("malformed selection: "+err.Error()))
		return
	}
	if _, err := s.dashboard.Select(c.Request.Context(), req.Species); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

// handleChart serves one panel as a standalone SVG document.
func (s *Server) handleChart(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.dashboard.SVG(&buf, c.Param("name")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.dashboard.Snapshot()
	status := gin.H{"status": "ok", "records": snap.Summary.Records}
	if snap.LastPass != nil {
		status["last_pass"] = snap.LastPass.ID
	}
	c.JSON(http.StatusOK, status)
}

// writeError maps application error codes to HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
