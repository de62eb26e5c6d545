package http

import (
	"context"
	"net/http"
	"time"
)

const checkTimeout = 5 * time.Second

// Checker probes one dependency for /readyz. Check returns nil when healthy.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// GET /health
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Pseudocode Checker API is running",
	})
}

// GET /healthz
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResult{Status: "ok"})
}

// ReadyzHandler returns 200 only when every checker passes, 503 otherwise.
func ReadyzHandler(checkers ...Checker) http.HandlerFunc {
	cs := append([]Checker(nil), checkers...)
	return func(w http.ResponseWriter, r *http.Request) {
		res := healthResult{Status: "ok", Checks: make(map[string]string, len(cs))}
		status := http.StatusOK
		for _, c := range cs {
			ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				res.Checks[c.Name] = "fail: " + err.Error()
				res.Status = "fail"
				status = http.StatusServiceUnavailable
				continue
			}
			res.Checks[c.Name] = "ok"
		}
		writeJSON(w, status, res)
	}
}
