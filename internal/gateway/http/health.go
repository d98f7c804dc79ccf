package http

import (
	"net/http"
	"time"

	"github.com/jamescompany/qa-portal/internal/gateway/service"
	"github.com/jamescompany/qa-portal/internal/gateway/store"
	"github.com/jamescompany/qa-portal/pkg/authsdk"
	"github.com/jamescompany/qa-portal/pkg/httpx"
)

// LivezHandler is the liveness probe: 200 whenever the process serves HTTP.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler is the readiness probe: it checks the database and reports
// which identity providers are configured.
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	providers *service.ProviderSet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database:  "ok",
			Providers: providerNames(providers),
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
