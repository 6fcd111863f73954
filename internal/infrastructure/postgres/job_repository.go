package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type JobRepository struct {
	db Querier
}

func NewJobRepository(db Querier) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id::text, title, description, location, job_type, wage, owner_id::text, owner_name,
		owner_image, requirements, is_active, applications::text[], created_at, updated_at`

func scanJob(row interface{ Scan(dest ...any) error }) (*entity.Job, error) {
	j := &entity.Job{}
	var jobType string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &jobType, &j.Wage, &j.OwnerID, &j.OwnerName,
		&j.OwnerImage, &j.Requirements, &j.IsActive, &j.Applications, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	j.JobType = entity.JobType(jobType)
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO jobs (title, description, location, job_type, wage, owner_id, owner_name, owner_image,
		                  requirements, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at, updated_at
	`, j.Title, j.Description, j.Location, string(j.JobType), j.Wage, j.OwnerID, j.OwnerName, j.OwnerImage,
		j.Requirements, j.IsActive)

	if err := row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return mapError(err)
	}
	j.Applications = []string{}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *JobRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Job, error) {
	out := make(map[string]*entity.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	jobs, err := r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		out[j.ID] = j
	}
	return out, nil
}

// Update writes the editable posting fields; applications is never overwritten here.
func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	j.UpdatedAt = time.Now()
	if j.Requirements == nil {
		j.Requirements = []string{}
	}

	res, err := r.db.Exec(ctx, `
		UPDATE jobs
		SET title = $1, description = $2, location = $3, job_type = $4, wage = $5, requirements = $6,
		    is_active = $7, updated_at = $8
		WHERE id = $9
	`, j.Title, j.Description, j.Location, string(j.JobType), j.Wage, j.Requirements, j.IsActive, j.UpdatedAt, j.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Search(ctx context.Context, keyword string) ([]*entity.Job, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"
	return r.list(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC, id DESC
	`, pattern)
}

func (r *JobRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Job, error) {
	return r.list(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE owner_id = $1 ORDER BY created_at DESC, id DESC
	`, ownerID)
}

func (r *JobRepository) AddApplication(ctx context.Context, jobID, applicationID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE jobs
		SET applications = array_append(applications, $2::uuid), updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(applications))
	`, jobID, applicationID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) SetApplications(ctx context.Context, jobID string, applicationIDs []string) error {
	if applicationIDs == nil {
		applicationIDs = []string{}
	}
	res, err := r.db.Exec(ctx, `
		UPDATE jobs SET applications = $2::uuid[], updated_at = now() WHERE id = $1
	`, jobID, applicationIDs)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	jobs := make([]*entity.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, mapError(rows.Err())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.JobRepository = (*JobRepository)(nil)
