package http

import (
	"net/http"
	"time"

	"github.com/kidstime/kidstime/internal/auth/denylist"
	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/httpx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// LivezHandler reports that the process is up. It never fails while the
// server can still serve requests.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports whether the service can actually do work: the
// database and the denylist redis must both answer.
func ReadyzHandler(st store.Store, dl *denylist.Denylist) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		checks := map[string]string{
			"database": "ok",
			"denylist": "ok",
		}
		status := http.StatusOK

		if err := st.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := dl.Ping(ctx); err != nil {
			checks["denylist"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": checks,
		})
	}
}
