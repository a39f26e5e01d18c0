package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// TrendHandler serves output constancy trend data and charts.
type TrendHandler struct {
	log *zap.Logger
}

func NewTrendHandler(log *zap.Logger) *TrendHandler {
	return &TrendHandler{log: log}
}

// SaveReading records one output constancy point for trending:
// POST /api/readings
func (h *TrendHandler) SaveReading(c *gin.Context) {
	var req struct {
		EquipmentID uint    `json:"equipment_id" binding:"required"`
		Date        string  `json:"date" binding:"required"`
		Energy      string  `json:"energy" binding:"required"`
		Reading     float64 `json:"reading" binding:"required"`
		Reference   float64 `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading payload"})
		return
	}
	if req.Reference == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reference must be non-zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reading date"})
		return
	}

	reading := &models.OutputReading{
		Date:        date,
		EquipmentID: req.EquipmentID,
		Energy:      req.Energy,
		Reading:     req.Reading,
		Reference:   req.Reference,
		Deviation:   (req.Reading - req.Reference) / req.Reference * 100,
	}
	if err := repository.SaveOutputReading(c.Request.Context(), reading); err != nil {
		h.log.Error("Failed to save output reading", zap.Uint("equipmentID", req.EquipmentID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save reading"})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

// Trend returns the raw trend points for one unit and energy:
// GET /api/trends?equipment_id=N&energy=6MV&days=90
func (h *TrendHandler) Trend(c *gin.Context) {
	equipmentID, energy, days, ok := trendParams(c)
	if !ok {
		return
	}
	points, err := repository.GetOutputTrend(c.Request.Context(), equipmentID, energy, days)
	if err != nil {
		h.log.Error("Failed to load output trend", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load trend data"})
		return
	}
	c.JSON(http.StatusOK, points)
}

// TrendChart renders the trend as an ECharts line chart option set:
// GET /api/trends/chart?equipment_id=N&energy=6MV&days=90
func (h *TrendHandler) TrendChart(c *gin.Context) {
	equipmentID, energy, days, ok := trendParams(c)
	if !ok {
		return
	}
	points, err := repository.GetOutputTrend(c.Request.Context(), equipmentID, energy, days)
	if err != nil {
		h.log.Error("Failed to load output trend", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load trend data"})
		return
	}

	line := generateTrendChart(points, energy)
	c.JSON(http.StatusOK, line.JSON())
}

func trendParams(c *gin.Context) (equipmentID uint, energy string, days int, ok bool) {
	id, err := strconv.ParseUint(c.Query("equipment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipment_id is required"})
		return 0, "", 0, false
	}
	energy = c.Query("energy")
	if energy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "energy is required"})
		return 0, "", 0, false
	}
	days = 90
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days window"})
			return 0, "", 0, false
		}
	}
	return uint(id), energy, days, true
}

func generateTrendChart(points []models.OutputReading, energy string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Output Constancy",
			Subtitle: energy + " deviation from reference (%)",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: []interface{}{p.Date, p.Deviation}})
	}

	line.AddSeries(energy, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))

	// Overlay the tolerance band so excursions are obvious at a glance.
	for _, bound := range []float64{3, -3} {
		band := make([]opts.LineData, 0, len(points))
		for _, p := range points {
			band = append(band, opts.LineData{Value: []interface{}{p.Date, bound}})
		}
		line.AddSeries("Tolerance", band).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Type: "dashed"}))
	}
	return line
}
