package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/qa"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// QAHandler serves the QA form data, per-measurement evaluation, and
// report submission.
type QAHandler struct {
	log      *zap.Logger
	catalogs models.CatalogSet
}

func NewQAHandler(log *zap.Logger, catalogs models.CatalogSet) *QAHandler {
	return &QAHandler{log: log, catalogs: catalogs}
}

// testEntry is one test as presented to the form: the catalog definition
// plus its classification, variant labels and resolved baselines.
type testEntry struct {
	models.TestDefinition
	Expansion string             `json:"expansion"`
	Baseline  *float64           `json:"baseline,omitempty"`
	Variants  []qa.VariantResult `json:"variants,omitempty"`
}

// FormData returns everything the client needs to render one QA form:
// GET /api/qa/:frequency?equipment_id=N
func (h *QAHandler) FormData(c *gin.Context) {
	frequency := c.Param("frequency")
	equipmentID, err := strconv.ParseUint(c.Query("equipment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipment_id is required"})
		return
	}

	eq, err := repository.GetEquipment(c.Request.Context(), uint(equipmentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	tests := h.catalogs.Tests(eq.EquipmentType, frequency)
	if tests == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No test catalog for this equipment type and frequency"})
		return
	}

	baselines, err := repository.GetBaselines(c.Request.Context(), eq.ID)
	if err != nil {
		// The form stays usable without baselines; percent tests will
		// ask for a reference value instead.
		h.log.Warn("Failed to load baselines", zap.Uint("equipmentID", eq.ID), zap.Error(err))
		baselines = nil
	}

	session := qa.NewSession(eq, frequency, tests, baselines)

	entries := make([]testEntry, 0, len(tests))
	for _, t := range tests {
		class := qa.Classify(eq.EquipmentType, t)
		entry := testEntry{
			TestDefinition: t,
			Expansion:      class.Kind.String(),
			Baseline:       session.Results[t.ID].Baseline,
		}
		for _, vr := range session.Variants[t.ID] {
			entry.Variants = append(entry.Variants, *vr)
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"equipment": eq,
		"frequency": frequency,
		"tests":     entries,
		"warnings":  session.Warnings,
	})
}

// Evaluate scores one measurement server-side:
// POST /api/qa/evaluate
func (h *QAHandler) Evaluate(c *gin.Context) {
	var req struct {
		EquipmentID  uint     `json:"equipment_id" binding:"required"`
		Frequency    string   `json:"frequency" binding:"required"`
		TestID       string   `json:"test_id" binding:"required"`
		VariantLabel string   `json:"variant_label"`
		Measurement  *float64 `json:"measurement"`
		// Baseline overrides the stored value when the operator types a
		// reference directly into the form.
		Baseline *float64 `json:"baseline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid evaluation request"})
		return
	}

	eq, err := repository.GetEquipment(c.Request.Context(), req.EquipmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	var def *models.TestDefinition
	for _, t := range h.catalogs.Tests(eq.EquipmentType, req.Frequency) {
		if t.ID == req.TestID {
			def = &t
			break
		}
	}
	if def == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown test id"})
		return
	}

	baseline := req.Baseline
	if baseline == nil {
		baselines, err := repository.GetBaselines(c.Request.Context(), eq.ID)
		if err != nil {
			h.log.Warn("Failed to load baselines", zap.Uint("equipmentID", eq.ID), zap.Error(err))
		} else if req.VariantLabel != "" {
			class := qa.Classify(eq.EquipmentType, *def)
			if v, ok := qa.ResolveVariantBaseline(class.Kind, def.ID, req.VariantLabel, baselines); ok {
				baseline = &v
			}
		} else if values, ok := baselines[def.ID]; ok {
			if v, ok := qa.ResolveBaseline(eq.EquipmentType, def.ID, values); ok {
				baseline = &v
			}
		}
	}

	verdict := qa.Evaluate(req.Measurement, baseline, def.Tolerance, def.ActionLevel)
	c.JSON(http.StatusOK, gin.H{
		"status":    verdict.Status,
		"deviation": verdict.Deviation,
		"message":   verdict.Message,
		"baseline":  baseline,
	})
}

// Submit persists a completed QA report:
// POST /api/qa/:frequency/submit
func (h *QAHandler) Submit(c *gin.Context) {
	frequency := c.Param("frequency")

	var req struct {
		EquipmentID uint                 `json:"equipment_id" binding:"required"`
		Date        string               `json:"date" binding:"required"`
		Performer   string               `json:"performer" binding:"required"`
		Witness     string               `json:"witness"`
		Comments    string               `json:"comments"`
		Signature   string               `json:"signature"`
		Entries     []qa.SubmissionEntry `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report payload"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report date"})
		return
	}

	eq, err := repository.GetEquipment(c.Request.Context(), req.EquipmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	user, _ := currentUser(c)
	report := &models.QAReport{
		ReportNumber: uuid.NewString(),
		Date:         date,
		Frequency:    frequency,
		EquipmentID:  eq.ID,
		Performer:    req.Performer,
		Witness:      req.Witness,
		Comments:     req.Comments,
		Signature:    req.Signature,
	}
	if user != nil {
		report.CreatedBy = user.ID
	}

	tests := make([]models.QATestResult, 0, len(req.Entries))
	for _, entry := range req.Entries {
		tests = append(tests, models.QATestResult{
			TestID:      entry.TestID,
			Status:      entry.Status,
			Measurement: entry.Measurement,
			Baseline:    entry.Baseline,
			Deviation:   entry.Deviation,
			Notes:       entry.Notes,
		})
	}

	if err := repository.SaveReportTx(c.Request.Context(), report, tests); err != nil {
		// The submitted payload is still valid client-side; the operator
		// can retry without re-entering measurements.
		h.log.Error("Failed to save QA report", zap.Uint("equipmentID", eq.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save report, please retry"})
		return
	}

	username := ""
	if user != nil {
		username = user.Username
	}
	if err := repository.LogAudit(c.Request.Context(), username, "SAVE_QA",
		frequency+" QA saved for "+eq.Name+" on "+req.Date, c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"report_id":     report.ID,
		"report_number": report.ReportNumber,
	})
}

// SaveBaseline upserts one baseline record:
// POST /api/baselines
func (h *QAHandler) SaveBaseline(c *gin.Context) {
	var req struct {
		EquipmentID  uint           `json:"equipment_id" binding:"required"`
		Key          string         `json:"key" binding:"required"`
		Values       map[string]any `json:"values" binding:"required"`
		SourceSerial string         `json:"source_serial"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid baseline payload"})
		return
	}

	if err := repository.PutBaseline(c.Request.Context(), req.EquipmentID, req.Key, req.Values, req.SourceSerial); err != nil {
		h.log.Error("Failed to save baseline", zap.Uint("equipmentID", req.EquipmentID), zap.String("key", req.Key), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save baseline, please retry"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Baselines returns the stored baseline map for one unit:
// GET /api/baselines?equipment_id=N
func (h *QAHandler) Baselines(c *gin.Context) {
	equipmentID, err := strconv.ParseUint(c.Query("equipment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipment_id is required"})
		return
	}
	baselines, err := repository.GetBaselines(c.Request.Context(), uint(equipmentID))
	if err != nil {
		h.log.Error("Failed to load baselines", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load baselines"})
		return
	}
	c.JSON(http.StatusOK, baselines)
}
