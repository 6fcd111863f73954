package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, name, email, phone, password_hash, bio, location, image_url,
		applied_jobs::text[], created_jobs::text[], created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Password, &u.Bio, &u.Location, &u.ImageURL,
		&u.AppliedJobs, &u.CreatedJobs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Location == "" {
		u.Location = entity.DefaultLocation
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, password_hash, bio, location, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, u.Name, u.Email, u.Phone, u.Password, u.Bio, u.Location, u.ImageURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapError(err)
	}
	u.AppliedJobs, u.CreatedJobs = []string{}, []string{}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Update writes profile fields only; the job lists go through the add-if-absent methods.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, phone = $3, password_hash = $4, bio = $5, location = $6,
		    image_url = $7, updated_at = $8
		WHERE id = $9
	`, u.Name, u.Email, u.Phone, u.Password, u.Bio, u.Location, u.ImageURL, u.UpdatedAt, u.ID)
	if err != nil {
		return mapError(err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) AddAppliedJob(ctx context.Context, userID, jobID string) error {
	return r.addToList(ctx, "applied_jobs", userID, jobID)
}

func (r *UserRepository) AddCreatedJob(ctx context.Context, userID, jobID string) error {
	return r.addToList(ctx, "created_jobs", userID, jobID)
}

// addToList is a no-op when the value is already present; a missing user
// is detected with a second lookup since zero rows is also the no-op case.
func (r *UserRepository) addToList(ctx context.Context, column, userID, value string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET `+column+` = array_append(`+column+`, $2::uuid), updated_at = now()
		WHERE id = $1 AND NOT ($2::uuid = ANY(`+column+`))
	`, userID, value)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetAppliedJobs(ctx context.Context, userID string, jobIDs []string) error {
	if jobIDs == nil {
		jobIDs = []string{}
	}
	res, err := r.db.Exec(ctx, `
		UPDATE users SET applied_jobs = $2::uuid[], updated_at = now() WHERE id = $1
	`, userID, jobIDs)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

var _ repository.UserRepository = (*UserRepository)(nil)
