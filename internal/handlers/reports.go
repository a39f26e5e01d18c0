package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// ReportHandler serves QA history and individual report views.
type ReportHandler struct {
	log *zap.Logger
}

func NewReportHandler(log *zap.Logger) *ReportHandler {
	return &ReportHandler{log: log}
}

// List returns report headers with summary counts:
// GET /api/reports?equipment_id=N&frequency=daily&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) List(c *gin.Context) {
	var filter repository.ReportFilter

	if v := c.Query("equipment_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment_id"})
			return
		}
		filter.EquipmentID = uint(id)
	}
	filter.Frequency = c.Query("frequency")
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
			return
		}
		filter.Start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
			return
		}
		// make the end bound inclusive of the whole day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.End = &end
	}

	reports, err := repository.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to list reports", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load report history"})
		return
	}

	type row struct {
		ID            uint      `json:"id"`
		ReportNumber  string    `json:"report_number"`
		Date          time.Time `json:"date"`
		Frequency     string    `json:"frequency"`
		EquipmentID   uint      `json:"equipment_id"`
		EquipmentName string    `json:"equipment_name"`
		Performer     string    `json:"performer"`
		PassCount     int       `json:"pass_count"`
		FailCount     int       `json:"fail_count"`
	}
	rows := make([]row, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		rows = append(rows, row{
			ID:            r.ID,
			ReportNumber:  r.ReportNumber,
			Date:          r.Date,
			Frequency:     r.Frequency,
			EquipmentID:   r.EquipmentID,
			EquipmentName: r.Equipment.Name,
			Performer:     r.Performer,
			PassCount:     r.PassCount(),
			FailCount:     r.FailCount(),
		})
	}
	c.JSON(http.StatusOK, rows)
}

// Get returns one full report with its test rows:
// GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}
	report, err := repository.GetReport(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export streams every matching report as a JSON attachment (admin):
// GET /api/admin/export?equipment_id=N
func (h *ReportHandler) Export(c *gin.Context) {
	var filter repository.ReportFilter
	if v := c.Query("equipment_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment_id"})
			return
		}
		filter.EquipmentID = uint(id)
	}

	reports, err := repository.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to export reports", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export reports"})
		return
	}

	username := ""
	if user, ok := currentUser(c); ok {
		username = user.Username
	}
	if err := repository.LogAudit(c.Request.Context(), username, "EXPORT_DATA",
		"Exported "+strconv.Itoa(len(reports))+" reports", c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.Header("Content-Disposition", `attachment; filename="qa-reports-`+time.Now().Format("2006-01-02")+`.json"`)
	c.JSON(http.StatusOK, reports)
}
