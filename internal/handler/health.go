package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports liveness of the process and its backing stores.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	out := gin.H{"status": "ok", "database": "ok", "redis": "ok"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		out["database"] = "down"
		out["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	if h.rdb == nil || h.rdb.Ping(c.Request.Context()).Err() != nil {
		out["redis"] = "down"
		out["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, out)
}
