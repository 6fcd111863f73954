package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/response"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

type ApplicationService interface {
	Apply(ctx context.Context, jobID, applicantID, message string) (*entity.Application, error)
	ListApplicationsForUser(ctx context.Context, userID string) ([]entity.ApplicationWithJob, error)
	ListApplicantsForJob(ctx context.Context, jobID string) ([]entity.ApplicationWithApplicant, error)
	SetApplicationStatus(ctx context.Context, applicationID, status string) (*entity.Application, error)
}

type AppliedJobsProjector interface {
	ProjectUserAppliedJobsWithStatus(ctx context.Context, userID string) ([]entity.AppliedJobStatus, error)
}

type ApplicationHandler struct {
	Svc       ApplicationService
	Projector AppliedJobsProjector
	Logger    *logrus.Logger
}

func NewApplicationHandler(svc ApplicationService, applied AppliedJobsProjector, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Projector: applied, Logger: logger}
}

type applyRequest struct {
	Message string `json:"message" binding:"max=5000"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Apply submits the caller's application to :jobId. The body is optional.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	a, err := h.Svc.Apply(c.Request.Context(), c.Param("jobId"), c.GetString(middleware.CtxUserIDKey), req.Message)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusCreated, toApplicationResponse(a), "you have successfully applied for the job", nil)
}

// Applied lists the caller's applications with job summaries, newest first.
func (h *ApplicationHandler) Applied(c *gin.Context) {
	apps, err := h.Svc.ListApplicationsForUser(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, withJobs(apps), "applications", response.ListMeta{Count: len(apps)})
}

func (h *ApplicationHandler) Applicants(c *gin.Context) {
	apps, err := h.Svc.ListApplicantsForJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, withApplicants(apps), "applicants", response.ListMeta{Count: len(apps)})
}

// UpdateStatus accepts any casing and surrounding whitespace.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid status", validation.ToDetails(err))
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	a, err := h.Svc.SetApplicationStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toApplicationResponse(a), "status updated", nil)
}

func (h *ApplicationHandler) AppliedJobsProfile(c *gin.Context) {
	jobs, err := h.Projector.ProjectUserAppliedJobsWithStatus(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toAppliedJobs(jobs), "applied jobs", response.ListMeta{Count: len(jobs)})
}
