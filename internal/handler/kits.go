package handler

import (
	"net/http"

	"clinistock/internal/apierror"
	"clinistock/internal/dto"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type KitHandler struct {
	svc service.KitService
}

func NewKitHandler(svc service.KitService) *KitHandler {
	return &KitHandler{svc: svc}
}

// ─── Generic kits ────────────────────────────────────────────────────────────

func (h *KitHandler) CreateItemSet(c *gin.Context) {
	var req dto.CreateItemSetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateItemSet(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *KitHandler) GetItemSet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetItemSet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitHandler) ListItemSets(c *gin.Context) {
	resp, err := h.svc.ListItemSets(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitHandler) ReplaceItemSetLines(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceKitLinesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReplaceItemSetLines(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ─── Patient kits ────────────────────────────────────────────────────────────

func (h *KitHandler) CreatePatientSet(c *gin.Context) {
	var req dto.CreatePatientSetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePatientSet(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *KitHandler) GetPatientSet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetPatientSet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPatientSets optionally filters by ?patient_id=.
func (h *KitHandler) ListPatientSets(c *gin.Context) {
	var patientID *uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid patient_id"))
			return
		}
		patientID = &id
	}
	resp, err := h.svc.ListPatientSets(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitHandler) ReplacePatientSetLines(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceKitLinesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReplacePatientSetLines(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KitHandler) DeletePatientSet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePatientSet(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
