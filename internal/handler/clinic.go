package handler

import (
	"net/http"

	"clinistock/internal/dto"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
)

type ClinicHandler struct {
	svc service.ClinicService
}

func NewClinicHandler(svc service.ClinicService) *ClinicHandler {
	return &ClinicHandler{svc: svc}
}

func (h *ClinicHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClinicHandler) Update(c *gin.Context) {
	var req dto.UpdateClinicRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
