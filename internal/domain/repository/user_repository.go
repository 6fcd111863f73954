package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup by id or filter matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// AddAppliedJob adds jobID to applied_jobs only when absent.
	AddAppliedJob(ctx context.Context, userID, jobID string) error
	// AddCreatedJob adds jobID to created_jobs only when absent.
	AddCreatedJob(ctx context.Context, userID, jobID string) error
	// SetAppliedJobs overwrites applied_jobs; used by reconciliation.
	SetAppliedJobs(ctx context.Context, userID string, jobIDs []string) error
	ListIDs(ctx context.Context) ([]string, error)
}
