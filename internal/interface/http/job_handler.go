package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/response"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

type JobService interface {
	CreateJob(ctx context.Context, ownerID string, in app.CreateJobInput) (*entity.Job, error)
	UpdateJob(ctx context.Context, callerID, jobID string, in app.UpdateJobInput) (*entity.Job, error)
	ListJobs(ctx context.Context, keyword string) ([]*entity.Job, error)
	GetJob(ctx context.Context, jobID string) (*entity.Job, error)
	ListJobsByOwner(ctx context.Context, ownerID string) ([]*entity.Job, error)
}

type JobHandler struct {
	Svc    JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

type createJobRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description" binding:"required"`
	Location     string   `json:"location" binding:"required,max=200"`
	JobType      string   `json:"job_type" binding:"omitempty,jobtype"`
	Wage         float64  `json:"wage" binding:"gte=0"`
	Requirements []string `json:"requirements" binding:"omitempty,dive,max=200"`
	IsActive     *bool    `json:"is_active"`
}

type updateJobRequest struct {
	Title        *string  `json:"title" binding:"omitempty,max=200"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location" binding:"omitempty,max=200"`
	JobType      *string  `json:"job_type" binding:"omitempty,jobtype"`
	Wage         *float64 `json:"wage" binding:"omitempty,gte=0"`
	Requirements []string `json:"requirements" binding:"omitempty,dive,max=200"`
	IsActive     *bool    `json:"is_active"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job, err := h.Svc.CreateJob(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), app.CreateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		JobType:      req.JobType,
		Wage:         req.Wage,
		Requirements: req.Requirements,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusCreated, toJobResponse(job), "job created", nil)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job, err := h.Svc.UpdateJob(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("jobId"), app.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		JobType:      req.JobType,
		Wage:         req.Wage,
		Requirements: req.Requirements,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toJobResponse(job), "job updated", nil)
}

// List filters by ?keyword= on title and description.
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.Svc.ListJobs(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toJobResponses(jobs), "jobs", response.ListMeta{Count: len(jobs)})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.Svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toJobResponse(job), "job", nil)
}

func (h *JobHandler) ListByOwner(c *gin.Context) {
	jobs, err := h.Svc.ListJobsByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	ok(c, http.StatusOK, toJobResponses(jobs), "jobs", response.ListMeta{Count: len(jobs)})
}
