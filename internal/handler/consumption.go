package handler

import (
	"net/http"

	"clinistock/internal/apierror"
	"clinistock/internal/dto"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConsumptionHandler struct {
	svc service.ConsumptionService
}

func NewConsumptionHandler(svc service.ConsumptionService) *ConsumptionHandler {
	return &ConsumptionHandler{svc: svc}
}

// Record godoc
// @Summary  Record ad-hoc stock consumption
// @Tags     consumption
// @Accept   json
// @Produce  json
// @Param    body body dto.RecordUsageRequest true "consumption lines"
// @Success  200 {object} dto.ConsumptionResult
// @Failure  404 {object} apierror.APIError
// @Router   /v1/consumption [post]
func (h *ConsumptionHandler) Record(c *gin.Context) {
	var req dto.RecordUsageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordUsage(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordBulk shares Record's contract; it exists as a separate route for
// spreadsheet-style multi-item entry clients.
func (h *ConsumptionHandler) RecordBulk(c *gin.Context) {
	h.Record(c)
}

// UsePatientKit consumes every line of a patient kit.
func (h *ConsumptionHandler) UsePatientKit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.UsePatientSet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UseGenericKit consumes a generic kit, optionally for a patient.
func (h *ConsumptionHandler) UseGenericKit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UseItemSetRequest
	// Body is optional here.
	_ = c.ShouldBindJSON(&req)

	var patientID *uuid.UUID
	if req.PatientID != nil && *req.PatientID != "" {
		pid, err := uuid.Parse(*req.PatientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid patient_id"))
			return
		}
		patientID = &pid
	}

	resp, err := h.svc.UseItemSet(c.Request.Context(), id, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
