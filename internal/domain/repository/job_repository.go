package repository

import (
	"context"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

// JobRepository stores job postings.
type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	// GetByIDs returns the jobs that exist, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Job, error)
	Update(ctx context.Context, j *entity.Job) error
	// Search matches keyword case-insensitively against title and description, newest first.
	Search(ctx context.Context, keyword string) ([]*entity.Job, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Job, error)
	// AddApplication appends applicationID to applications only when absent.
	AddApplication(ctx context.Context, jobID, applicationID string) error
	SetApplications(ctx context.Context, jobID string, applicationIDs []string) error
}
