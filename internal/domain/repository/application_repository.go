package repository

import (
	"context"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

// ApplicationRepository is the source of truth for the user/job relation.
// Create must return ErrDuplicate when (job, applicant) already exists.
type ApplicationRepository interface {
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id string) (*entity.Application, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entity.Application, error)
	UpdateStatus(ctx context.Context, id string, status entity.ApplicationStatus) (*entity.Application, error)
	// ListByApplicant returns the applicant's applications with job summaries, newest first.
	ListByApplicant(ctx context.Context, applicantID string) ([]entity.ApplicationWithJob, error)
	// ListByJob returns the job's applications with applicant details, newest first.
	ListByJob(ctx context.Context, jobID string) ([]entity.ApplicationWithApplicant, error)
	// ListRawByApplicant returns bare application records, newest first.
	ListRawByApplicant(ctx context.Context, applicantID string) ([]*entity.Application, error)
	// ListRawByJob returns bare application records in arrival order.
	ListRawByJob(ctx context.Context, jobID string) ([]*entity.Application, error)
}
