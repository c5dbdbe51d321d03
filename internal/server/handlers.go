package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cleanbrook/watertrend/internal/series"
	"github.com/cleanbrook/watertrend/internal/target"
)

const dateParamLayout = "2006-01-02"

// handleFilters returns the filter widget inputs: distinct types, parameters
// (optionally scoped to a type), sites (optionally scoped further to a
// parameter), and the dataset's month range.
// GET /api/v1/filters?type=&parameter=
func (s *Server) handleFilters(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	snap, err := s.loader.Current(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	typ := c.Query("type")
	parameter := c.Query("parameter")

	resp := gin.H{
		"types":      snap.Types(),
		"parameters": snap.Parameters(typ),
		"sites":      snap.Sites(typ, parameter),
		"load_id":    snap.LoadID.String(),
	}
	if minM, maxM, ok := snap.MonthRange(); ok {
		resp["month_range"] = gin.H{
			"start": minM.Format(dateParamLayout),
			"end":   maxM.Format(dateParamLayout),
		}
	}
	c.JSON(http.StatusOK, resp)
}

type seriesPoint struct {
	SiteID     string   `json:"site_id"`
	Month      string   `json:"month"`
	SampleDate string   `json:"sample_date,omitempty"`
	Result     *float64 `json:"result"`
}

// handleSeries computes the monthly trend for one selection.
// GET /api/v1/series?type=&parameter=&site=A&site=B&start=&end=
func (s *Server) handleSeries(c *gin.Context) {
	parameter := c.Query("parameter")
	if parameter == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parameter is required"})
		return
	}

	sel := series.Selection{
		Type:      c.Query("type"),
		Parameter: parameter,
		Sites:     c.QueryArray("site"),
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, want YYYY-MM-DD"})
			return
		}
		sel.Start = t.UTC()
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, want YYYY-MM-DD"})
			return
		}
		sel.End = t.UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	snap, err := s.loader.Current(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	monthly := series.Monthly(snap.Rows, sel)
	points := make([]seriesPoint, 0, len(monthly))
	unit := ""
	for _, r := range monthly {
		p := seriesPoint{
			SiteID: r.SiteID,
			Month:  r.MonthStart.Format(dateParamLayout),
			Result: r.Result,
		}
		if r.HasDate() {
			p.SampleDate = r.SampleDate.Format(dateParamLayout)
		}
		if unit == "" && r.Unit != "" {
			unit = r.Unit
		}
		points = append(points, p)
	}

	resp := gin.H{
		"parameter": parameter,
		"type":      sel.Type,
		"unit":      unit,
		"points":    points,
		"meta": gin.H{
			"count":   len(points),
			"load_id": snap.LoadID.String(),
		},
	}
	if maxTarget, ok := target.Lookup(snap.Targets, parameter); ok {
		resp["max_target"] = maxTarget
	}
	c.JSON(http.StatusOK, resp)
}

// handleRefresh discards the cached documents and reloads the dataset.
// POST /api/v1/refresh
func (s *Server) handleRefresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	snap, err := s.loader.Refresh(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"load_id":   snap.LoadID.String(),
		"loaded_at": snap.LoadedAt.Format(time.RFC3339),
		"rows":      len(snap.Rows),
		"targets":   len(snap.Targets),
	})
}
