package handler

import (
	"net/http"

	"clinistock/internal/apierror"
	"clinistock/internal/dto"
	"clinistock/internal/service"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	svc service.BackupService
}

func NewBackupHandler(svc service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Export streams the full database snapshot as a JSON attachment.
func (h *BackupHandler) Export(c *gin.Context) {
	snap, err := h.svc.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="clinistock-backup.json"`)
	c.JSON(http.StatusOK, snap)
}

// Restore replaces all data with the uploaded snapshot.
func (h *BackupHandler) Restore(c *gin.Context) {
	var snap dto.BackupSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("malformed backup file"))
		return
	}
	if err := h.svc.Restore(c.Request.Context(), &snap); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}

// Clear wipes operational data. Admin only; guarded at the router.
func (h *BackupHandler) Clear(c *gin.Context) {
	var req dto.ClearDataRequest
	// Empty body means a full wipe.
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Clear(c.Request.Context(), req.KeepSuppliers); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true, "kept_suppliers": req.KeepSuppliers})
}
