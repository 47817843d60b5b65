package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfsync/internal/database"
)

// SchedulerStatus reports the periodic list sync state.
type SchedulerStatus interface {
	IsRunning() bool
	IsSyncing() bool
	GetNextRunTime() *time.Time
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks"`
	NextSync  string            `json:"next_sync,omitempty"`
	IsSyncing bool              `json:"is_syncing"`
}

type HealthController struct {
	db        *database.Database
	scheduler SchedulerStatus
	version   string
}

func NewHealthController(db *database.Database, scheduler SchedulerStatus, version string) *HealthController {
	return &HealthController{
		db:        db,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	switch {
	case h.scheduler == nil || !h.scheduler.IsRunning():
		checks["scheduler"] = "disabled"
	default:
		checks["scheduler"] = "running"
		health.IsSyncing = h.scheduler.IsSyncing()
		if next := h.scheduler.GetNextRunTime(); next != nil {
			health.NextSync = next.Format(time.RFC3339)
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
