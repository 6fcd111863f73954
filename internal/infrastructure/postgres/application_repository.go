package postgres

import (
	"context"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type ApplicationRepository struct {
	db Querier
}

func NewApplicationRepository(db Querier) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `a.id::text, a.job_id::text, a.applicant_id::text, a.message, a.status, a.created_at, a.updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanApplication(row scanner, extra ...any) (*entity.Application, error) {
	a := &entity.Application{}
	var status string
	dest := append([]any{&a.ID, &a.JobID, &a.ApplicantID, &a.Message, &status, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	a.Status = entity.ApplicationStatus(status)
	return a, nil
}

// Create relies on applications_job_applicant_key to reject a second
// application for the same pair; the violation surfaces as ErrDuplicate.
func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	if a.Status == "" {
		a.Status = entity.StatusPending
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO applications (job_id, applicant_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, a.JobID, a.ApplicantID, a.Message, string(a.Status))

	return mapError(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id))
}

func (r *ApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entity.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `
		SELECT `+applicationColumns+` FROM applications a
		WHERE a.job_id = $1 AND a.applicant_id = $2
	`, jobID, applicantID))
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status entity.ApplicationStatus) (*entity.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `
		UPDATE applications a SET status = $2, updated_at = now()
		WHERE a.id = $1
		RETURNING `+applicationColumns, id, string(status)))
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]entity.ApplicationWithJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+applicationColumns+`,
		       j.id::text, j.title, j.location, j.job_type, j.wage, j.owner_name, j.is_active
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, applicantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.ApplicationWithJob, 0)
	for rows.Next() {
		var s entity.JobSummary
		var jobType string
		a, err := scanApplication(rows, &s.ID, &s.Title, &s.Location, &jobType, &s.Wage, &s.OwnerName, &s.IsActive)
		if err != nil {
			return nil, err
		}
		s.JobType = entity.JobType(jobType)
		out = append(out, entity.ApplicationWithJob{Application: *a, Job: s})
	}
	return out, mapError(rows.Err())
}

// ListByJob selects only the applicant fields an employer may see.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]entity.ApplicationWithApplicant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+applicationColumns+`,
		       u.id::text, u.name, u.email, u.phone
		FROM applications a
		JOIN users u ON u.id = a.applicant_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, jobID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.ApplicationWithApplicant, 0)
	for rows.Next() {
		var p entity.Applicant
		a, err := scanApplication(rows, &p.ID, &p.Name, &p.Email, &p.Phone)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.ApplicationWithApplicant{Application: *a, Applicant: p})
	}
	return out, mapError(rows.Err())
}

func (r *ApplicationRepository) ListRawByApplicant(ctx context.Context, applicantID string) ([]*entity.Application, error) {
	return r.listRaw(ctx, `
		SELECT `+applicationColumns+` FROM applications a
		WHERE a.applicant_id = $1 ORDER BY a.created_at DESC, a.id DESC
	`, applicantID)
}

func (r *ApplicationRepository) ListRawByJob(ctx context.Context, jobID string) ([]*entity.Application, error) {
	return r.listRaw(ctx, `
		SELECT `+applicationColumns+` FROM applications a
		WHERE a.job_id = $1 ORDER BY a.created_at ASC, a.id ASC
	`, jobID)
}

func (r *ApplicationRepository) listRaw(ctx context.Context, query string, args ...any) ([]*entity.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]*entity.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, mapError(rows.Err())
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
