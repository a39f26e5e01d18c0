package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/qa"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// EquipmentHandler manages the treatment unit inventory.
type EquipmentHandler struct {
	log *zap.Logger
}

func NewEquipmentHandler(log *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{log: log}
}

// List returns active units, or every unit with ?all=true (admin view).
func (h *EquipmentHandler) List(c *gin.Context) {
	var (
		units []models.Equipment
		err   error
	)
	if c.Query("all") == "true" {
		units, err = repository.ListAllEquipment(c.Request.Context())
	} else {
		units, err = repository.ListActiveEquipment(c.Request.Context())
	}
	if err != nil {
		h.log.Error("Failed to list equipment", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load equipment"})
		return
	}
	c.JSON(http.StatusOK, units)
}

// Get returns one unit by id.
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment id"})
		return
	}
	eq, err := repository.GetEquipment(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	resp := gin.H{"equipment": eq}
	if activity, ok := h.currentActivity(c, eq); ok {
		resp["current_activity"] = activity
	}
	c.JSON(http.StatusOK, resp)
}

// currentActivity projects a cobalt unit's commissioned source activity
// to today. Returns false for units without a decaying source or without
// a stored initial activity.
func (h *EquipmentHandler) currentActivity(c *gin.Context, eq *models.Equipment) (float64, bool) {
	if eq.EquipmentType != models.TypeCobalt60 || eq.InstallDate == nil {
		return 0, false
	}
	baselines, err := repository.GetBaselines(c.Request.Context(), eq.ID)
	if err != nil {
		h.log.Warn("Failed to load baselines for activity projection", zap.Uint("equipmentID", eq.ID), zap.Error(err))
		return 0, false
	}
	values, ok := baselines["CO1"]
	if !ok {
		return 0, false
	}
	initial, ok := qa.ResolveBaseline(eq.EquipmentType, "CO1", values)
	if !ok {
		return 0, false
	}
	return qa.DecayedActivity(initial, time.Since(*eq.InstallDate), qa.Co60HalfLife), true
}

// Save creates or updates a unit. The client sends the full record;
// id 0 means create.
func (h *EquipmentHandler) Save(c *gin.Context) {
	var eq models.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment payload"})
		return
	}
	if eq.Name == "" || eq.EquipmentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and equipment type are required"})
		return
	}

	if err := repository.SaveEquipment(c.Request.Context(), &eq); err != nil {
		h.log.Error("Failed to save equipment", zap.String("name", eq.Name), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save equipment"})
		return
	}

	username := ""
	if user, ok := currentUser(c); ok {
		username = user.Username
	}
	if err := repository.LogAudit(c.Request.Context(), username, "SAVE_UNIT",
		"Unit saved: "+eq.Name, c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.JSON(http.StatusOK, eq)
}
