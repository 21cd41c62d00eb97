package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	recordsRepo "courtflow/database/repository/records"
	"courtflow/models"
	"courtflow/services/reservation"
	"courtflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler exposes the draft workflow over HTTP.
type ReservationHandler struct {
	Service reservation.ReservationSessionService
	Records recordsRepo.ReservationRecordRepository
	Logger  *zap.Logger
}

// NewReservationHandler builds the handler.
func NewReservationHandler(service reservation.ReservationSessionService, records recordsRepo.ReservationRecordRepository, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Service: service, Records: records, Logger: logger}
}

// StartDraft creates a new reservation draft.
func (h *ReservationHandler) StartDraft(c *gin.Context) {
	var input struct {
		Mode models.Mode `json:"mode"`
	}
	// Body is optional; mode defaults to IMMEDIATE.
	_ = c.ShouldBindJSON(&input)

	if input.Mode != "" && !input.Mode.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "invalid mode", "mode must be IMMEDIATE or LINK")
		return
	}

	view, err := h.Service.StartDraft(input.Mode)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start draft", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDraft returns the current draft snapshot with validation state.
func (h *ReservationHandler) GetDraft(c *gin.Context) {
	view, err := h.Service.GetDraft(c.Param("draftID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "draft not found or expired", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetDraftField applies one field write with cascade invalidation.
func (h *ReservationHandler) SetDraftField(c *gin.Context) {
	draftID := c.Param("draftID")
	var input struct {
		Field string          `json:"field" binding:"required"`
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	value, err := reservation.DecodeFieldValue(input.Field, input.Value)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid field value", err.Error())
		return
	}

	view, err := h.Service.SetField(draftID, input.Field, value)
	if err != nil {
		if strings.Contains(err.Error(), "not found or expired") {
			utils.JSONError(c, http.StatusNotFound, "draft not found or expired", err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "failed to set field", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitDraft runs the validation gate and submits through the mode-selected
// partner operation.
func (h *ReservationHandler) SubmitDraft(c *gin.Context) {
	draftID := c.Param("draftID")

	result, followUp, err := h.Service.Submit(draftID)
	if err != nil {
		h.respondSubmitError(c, draftID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":   result,
		"followUp": followUp,
	})
}

func (h *ReservationHandler) respondSubmitError(c *gin.Context, draftID string, err error) {
	var validationErr *reservation.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "draft is not submittable",
			"fields":     validationErr.Fields,
			"firstField": reservation.FirstInvalidField(validationErr.Mode, validationErr.Fields),
		})
		return
	}

	var timeErr *reservation.TimeFormatError
	if errors.As(err, &timeErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "selected slot is invalid, please re-select",
		})
		return
	}

	var concurrentErr *reservation.ConcurrentSubmissionError
	if errors.As(err, &concurrentErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "a submission is already in progress",
		})
		return
	}

	var conflictErr *reservation.ReservationConflictError
	if errors.As(err, &conflictErr) {
		// The slot was taken between resolution and submission; the service
		// already cleared it and refreshed availability.
		c.JSON(http.StatusConflict, gin.H{
			"error":        "slot no longer available, please pick another",
			"availability": h.Service.CurrentAvailability(draftID),
		})
		return
	}

	if strings.Contains(err.Error(), "not found or expired") {
		utils.JSONError(c, http.StatusNotFound, "draft not found or expired", err.Error())
		return
	}

	h.Logger.Error("submission failed", zap.String("draftID", draftID), zap.Error(err))
	utils.JSONError(c, http.StatusBadGateway, "submission failed", err.Error())
}

// CancelDraft discards the draft.
func (h *ReservationHandler) CancelDraft(c *gin.Context) {
	if err := h.Service.CancelDraft(c.Param("draftID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel draft", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListRecords returns the persisted submission trail, newest first.
func (h *ReservationHandler) ListRecords(c *gin.Context) {
	page := models.Page{
		Number: queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 20),
	}

	records, err := h.Records.List(c.Request.Context(), page)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list records", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "page": page.Clamp()})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
