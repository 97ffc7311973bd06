package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Checker serves the liveness and readiness probes.
type Checker struct {
	db *pgxpool.Pool
}

func NewChecker(db *pgxpool.Pool) *Checker {
	return &Checker{db: db}
}

// Healthz reports process liveness.
func (c *Checker) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readyz reports readiness: the database must answer a ping.
func (c *Checker) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	status := "ready"
	code := http.StatusOK
	if c.db == nil {
		status = "database not configured"
		code = http.StatusServiceUnavailable
	} else if err := c.db.Ping(ctx); err != nil {
		status = "database unreachable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           status,
		"response_time_ms": time.Since(start).Milliseconds(),
	})
}
