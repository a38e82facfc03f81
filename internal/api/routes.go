package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/threadsync/threadsync/internal/api/common"
	"github.com/threadsync/threadsync/internal/service"
	"github.com/threadsync/threadsync/internal/tracking"
	"github.com/threadsync/threadsync/internal/versions"
)

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// TrackedRouter creates a router for the tracked issue endpoints
func TrackedRouter(svc service.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/", listTrackedHandler(svc))
	r.Get("/{number}", getTrackedHandler(svc))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

func readinessHandler(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			slog.Warn("Readiness check failed", "error", err)
			common.WriteErrorResponse(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()
	common.WriteJSONResponse(w, VersionResponse{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}, http.StatusOK)
}

func statusHandler(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSONResponse(w, StatusResponse{
			Repository: svc.Repository(),
			Tasks:      svc.TaskStatuses(r.Context()),
		}, http.StatusOK)
	}
}

func listTrackedHandler(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListTracked(r.Context())
		if err != nil {
			slog.Error("Failed to list tracked issues", "error", err)
			common.WriteErrorResponse(w, "Failed to list tracked issues", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []tracking.TrackedIssue{}
		}
		common.WriteJSONResponse(w, TrackedResponse{
			Repository: svc.Repository(),
			Count:      len(list),
			Issues:     list,
		}, http.StatusOK)
	}
}

func getTrackedHandler(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(chi.URLParam(r, "number"))
		if err != nil || number <= 0 {
			common.WriteErrorResponse(w, "issue number must be a positive integer", http.StatusBadRequest)
			return
		}

		mapping, err := svc.GetTracked(r.Context(), number)
		if errors.Is(err, service.ErrNotTracked) {
			common.WriteErrorResponse(w, "issue is not tracked", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("Failed to get tracked issue", "issue", number, "error", err)
			common.WriteErrorResponse(w, "Failed to get tracked issue", http.StatusInternalServerError)
			return
		}
		common.WriteJSONResponse(w, mapping, http.StatusOK)
	}
}
