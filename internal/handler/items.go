package handler

import (
	"io"
	"net/http"

	"clinistock/internal/apierror"
	"clinistock/internal/dto"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
)

// maxCSVSize caps catalog imports at 2 MiB.
const maxCSVSize = 2 << 20

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List items with filtering and pagination
// @Tags     items
// @Produce  json
// @Param    name        query string false "name substring"
// @Param    supplier_id query string false "filter by supplier"
// @Param    below_min   query bool   false "only items at or below minimum"
// @Success  200 {object} dto.ItemListResponse
// @Router   /v1/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStock is the inline stock correction, distinct from consumption.
func (h *ItemHandler) SetStock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetStock(c.Request.Context(), id, req.CurrentStock)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportCSV accepts either a multipart "file" field or a raw text/csv body.
func (h *ItemHandler) ImportCSV(c *gin.Context) {
	var data []byte

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("cannot read uploaded file"))
			return
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, maxCSVSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("cannot read uploaded file"))
			return
		}
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCSVSize))
		if err != nil || len(body) == 0 {
			c.JSON(http.StatusBadRequest, apierror.New("empty import body"))
			return
		}
		data = body
	}

	resp, err := h.svc.ImportCSV(c.Request.Context(), data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
