package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"agrimind/pkg/cache"
)

var appStart = time.Now()

type HealthCtrl struct {
	db    *gorm.DB
	cache cache.Client // optional
}

func NewHealthCtrl(db *gorm.DB, cacheClient cache.Client) *HealthCtrl {
	return &HealthCtrl{db: db, cache: cacheClient}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// Health reports 503 when the database is unreachable. A failing cache is
// reported but does not fail the check.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)
	checks := map[string]any{"database": db}
	if h.cache != nil {
		cs := sub{OK: true}
		if err := h.cache.Ping(ctx); err != nil {
			cs = sub{Err: "ping: " + err.Error()}
		}
		checks["cache"] = cs
	}

	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) pingDB(ctx context.Context) sub {
	if h.db == nil {
		return sub{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}
