package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cron"
)

// JobRunner runs a scheduled job on demand.
type JobRunner interface {
	RunJob(ctx context.Context, name string) error
}

type AdminHandler interface {
	// POST /admin/cache/refresh
	RefreshCache(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	jobs JobRunner
}

func NewAdminHandler(jobs JobRunner) AdminHandler {
	return &adminHandlerImpl{jobs: jobs}
}

func (h *adminHandlerImpl) RefreshCache(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.RunJob(r.Context(), cron.CacheRefreshJobName); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cache refreshed", nil)
}
