package application

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
)

// JobIndex is the optional full-text index over job postings.
type JobIndex interface {
	IndexJob(ctx context.Context, j *entity.Job) error
	// SearchJobIDs returns matching ids ordered newest first.
	SearchJobIDs(ctx context.Context, keyword string, size int) ([]string, error)
}

const searchLimit = 100

type JobService struct {
	Jobs   repo.JobRepository
	Users  repo.UserRepository
	Index  JobIndex
	Logger *logrus.Logger
}

func NewJobService(jobs repo.JobRepository, users repo.UserRepository, index JobIndex, logger *logrus.Logger) *JobService {
	return &JobService{Jobs: jobs, Users: users, Index: index, Logger: logger}
}

type CreateJobInput struct {
	Title        string
	Description  string
	Location     string
	JobType      string
	Wage         float64
	Requirements []string
	IsActive     *bool
}

// UpdateJobInput carries only the fields to change.
type UpdateJobInput struct {
	Title        *string
	Description  *string
	Location     *string
	JobType      *string
	Wage         *float64
	Requirements []string
	IsActive     *bool
}

// CreateJob stores a posting owned by ownerID and records it on the owner's created list.
func (s *JobService) CreateJob(ctx context.Context, ownerID string, in CreateJobInput) (*entity.Job, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, unauthorized("authentication required")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Location) == "" {
		return nil, invalidArgument("missing required fields")
	}
	if in.Wage < 0 {
		return nil, invalidArgument("wage must not be negative")
	}
	jobType, err := entity.ParseJobType(in.JobType)
	if err != nil {
		return nil, invalidArgument("invalid job type")
	}

	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, lookupFailure(err, "user not found", "load owner")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	job := &entity.Job{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		JobType:      jobType,
		Wage:         in.Wage,
		OwnerID:      owner.ID,
		OwnerName:    owner.Name,
		OwnerImage:   owner.ImageURL,
		Requirements: cleanRequirements(in.Requirements),
		IsActive:     active,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, storeFailure(err, "create job")
	}
	if err := s.Users.AddCreatedJob(ctx, owner.ID, job.ID); err != nil {
		s.logger().WithError(err).WithFields(logrus.Fields{"job_id": job.ID, "user_id": owner.ID}).
			Warn("job stored but not recorded on owner")
	}
	s.index(ctx, job)
	return job, nil
}

// UpdateJob applies in to the job; only the owner may edit it.
func (s *JobService) UpdateJob(ctx context.Context, callerID, jobID string, in UpdateJobInput) (*entity.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, invalidArgument("job id is required")
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, lookupFailure(err, "job not found", "load job")
	}
	if job.OwnerID != callerID {
		return nil, forbidden("only the job owner can update this job")
	}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			job.Title = t
		}
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		job.Description = *in.Description
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) != "" {
		job.Location = *in.Location
	}
	if in.JobType != nil {
		jt, err := entity.ParseJobType(*in.JobType)
		if err != nil {
			return nil, invalidArgument("invalid job type")
		}
		job.JobType = jt
	}
	if in.Wage != nil {
		if *in.Wage < 0 {
			return nil, invalidArgument("wage must not be negative")
		}
		job.Wage = *in.Wage
	}
	if in.Requirements != nil {
		job.Requirements = cleanRequirements(in.Requirements)
	}
	if in.IsActive != nil {
		job.IsActive = *in.IsActive
	}

	if err := s.Jobs.Update(ctx, job); err != nil {
		return nil, lookupFailure(err, "job not found", "update job")
	}
	s.index(ctx, job)
	return job, nil
}

// ListJobs returns jobs whose title or description contains keyword, newest
// first. The index is used when present; SQL is the fallback.
func (s *JobService) ListJobs(ctx context.Context, keyword string) ([]*entity.Job, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword != "" && s.Index != nil {
		jobs, err := s.searchIndex(ctx, keyword)
		if err == nil {
			return jobs, nil
		}
		s.logger().WithError(err).WithField("keyword", keyword).Warn("job index search failed, falling back to sql")
	}
	jobs, err := s.Jobs.Search(ctx, keyword)
	if err != nil {
		return nil, storeFailure(err, "search jobs")
	}
	return jobs, nil
}

func (s *JobService) searchIndex(ctx context.Context, keyword string) ([]*entity.Job, error) {
	ids, err := s.Index.SearchJobIDs(ctx, keyword, searchLimit)
	if err != nil {
		return nil, err
	}
	found, err := s.Jobs.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := found[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *JobService) GetJob(ctx context.Context, jobID string) (*entity.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, invalidArgument("job id is required")
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, lookupFailure(err, "job not found", "load job")
	}
	return job, nil
}

// ListJobsByOwner returns the owner's postings newest first; none is an empty list.
func (s *JobService) ListJobsByOwner(ctx context.Context, ownerID string) ([]*entity.Job, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, invalidArgument("owner id is required")
	}
	jobs, err := s.Jobs.ListByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []*entity.Job{}, nil
		}
		return nil, storeFailure(err, "list jobs by owner")
	}
	return jobs, nil
}

func (s *JobService) index(ctx context.Context, job *entity.Job) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexJob(ctx, job); err != nil {
		s.logger().WithError(err).WithField("job_id", job.ID).Warn("job index failed")
	}
}

func (s *JobService) logger() *logrus.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}

func cleanRequirements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
