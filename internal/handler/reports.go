package handler

import (
	"net/http"
	"strconv"
	"time"

	"clinistock/internal/apierror"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Monthly defaults to the current calendar month when year/month are
// not supplied.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid year"))
			return
		}
		year = n
	}
	if raw := c.Query("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid month"))
			return
		}
		month = n
	}

	resp, err := h.svc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
