package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the ambient backends the service depends
// on are reachable, alongside the plain liveness check the teacher's
// Health handler provided.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Health returns {status, backend_ok} per spec.md §6: the reservation
// core itself never depends on these backends being up, only the
// snapshot/cache/rate-limit ambient layer does.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	backendOK := true
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			backendOK = false
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			backendOK = false
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":     "ok",
		"backend_ok": backendOK,
	})
}
