package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db     *gorm.DB
	driver string
	logger *zap.Logger
}

func NewHealthHandler(db *gorm.DB, driver string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, logger: logger}
}

// Live answers as long as the process serves requests
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Database reports connectivity and connection pool statistics
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	stats, err := database.HealthCheckWithStats(ctx, h.db)
	if err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"service": "database",
			"error":   err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"driver":  h.driver,
		"stats":   stats,
	})
}

// Ready checks every dependency needed to serve traffic, including an
// applied schema
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks := make(map[string]interface{})
	healthy := true

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		checks["database"] = map[string]string{"status": "healthy"}
	}

	if healthy {
		version, err := database.SchemaVersion(h.db, h.driver)
		switch {
		case err != nil:
			checks["schema"] = map[string]string{"status": "unhealthy", "error": err.Error()}
			healthy = false
		case version < 1:
			checks["schema"] = map[string]interface{}{"status": "unhealthy", "version": version}
			healthy = false
		default:
			checks["schema"] = map[string]interface{}{"status": "healthy", "version": version}
		}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
