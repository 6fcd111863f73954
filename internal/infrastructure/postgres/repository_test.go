package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

var appCols = []string{"id", "job_id", "applicant_id", "message", "status", "created_at", "updated_at"}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}), repository.ErrDuplicate)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "22P02"}), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23503"}), repository.ErrNotFound)

	boom := errors.New("boom")
	assert.Equal(t, boom, mapError(boom))
}

func TestApplicationRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectQuery(q("INSERT INTO applications")).
		WithArgs("job-1", "user-1", "", "pending").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_job_applicant_key"})

	err := repo.Create(context.Background(), &entity.Application{JobID: "job-1", ApplicantID: "user-1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestApplicationRepository_CreateDefaultsToPending(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q("INSERT INTO applications")).
		WithArgs("job-1", "user-1", "hello", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("app-1", now, now))

	a := &entity.Application{JobID: "job-1", ApplicantID: "user-1", Message: "hello"}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, "app-1", a.ID)
	assert.Equal(t, entity.StatusPending, a.Status)
	assert.Equal(t, now, a.CreatedAt)
}

func TestApplicationRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectQuery(q("FROM applications a WHERE a.id = $1")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(appCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplicationRepository_UpdateStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q("UPDATE applications a SET status = $2")).
		WithArgs("app-1", "accepted").
		WillReturnRows(pgxmock.NewRows(appCols).AddRow("app-1", "job-1", "user-1", "", "accepted", now, now))

	a, err := repo.UpdateStatus(context.Background(), "app-1", entity.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, a.Status)
	assert.Equal(t, "job-1", a.JobID)
}

func TestApplicationRepository_ListByJobKeepsNewestFirst(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2, t3 := t1.Add(time.Hour), t1.Add(2*time.Hour)

	cols := append(append([]string{}, appCols...), "uid", "name", "email", "phone")
	mock.ExpectQuery(q("ORDER BY a.created_at DESC, a.id DESC")).
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("a3", "job-1", "u3", "", "pending", t3, t3, "u3", "C", "c@example.com", "3").
			AddRow("a2", "job-1", "u2", "", "accepted", t2, t2, "u2", "B", "b@example.com", "2").
			AddRow("a1", "job-1", "u1", "", "rejected", t1, t1, "u1", "A", "a@example.com", "1"))

	list, err := repo.ListByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a3", "a2", "a1"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "b@example.com", list[1].Applicant.Email)
	assert.Equal(t, entity.StatusRejected, list[2].Status)
}

func TestApplicationRepository_ListByApplicantEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)

	cols := append(append([]string{}, appCols...), "jid", "title", "location", "job_type", "wage", "owner_name", "is_active")
	mock.ExpectQuery(q("JOIN jobs j ON j.id = a.job_id")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(cols))

	list, err := repo.ListByApplicant(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUserRepository_AddAppliedJobIsConditional(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q("NOT ($2::uuid = ANY(applied_jobs))")).
		WithArgs("user-1", "job-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.AddAppliedJob(context.Background(), "user-1", "job-1"))
}

func TestUserRepository_AddAppliedJobAlreadyPresent(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q("array_append(applied_jobs")).
		WithArgs("user-1", "job-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, repo.AddAppliedJob(context.Background(), "user-1", "job-1"))
}

func TestUserRepository_AddCreatedJobMissingUser(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q("array_append(created_jobs")).
		WithArgs("ghost", "job-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(q("SELECT EXISTS")).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	assert.ErrorIs(t, repo.AddCreatedJob(context.Background(), "ghost", "job-1"), repository.ErrNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	cols := []string{"id", "name", "email", "phone", "password_hash", "bio", "location", "image_url",
		"applied_jobs", "created_jobs", "created_at", "updated_at"}
	mock.ExpectQuery(q("FROM users WHERE email = $1")).
		WithArgs("bea@example.com").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("u1", "Bea", "bea@example.com", "", "hash", "", "Unknown", "",
			[]string{"j1"}, []string{}, now, now))

	u, err := repo.GetByEmail(context.Background(), "bea@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, []string{"j1"}, u.AppliedJobs)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("Bea", "bea@example.com", "", "hash", "", "Unknown", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.User{Name: "Bea", Email: "bea@example.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestJobRepository_SearchEscapesWildcards(t *testing.T) {
	mock := newMock(t)
	repo := NewJobRepository(mock)

	cols := []string{"id", "title", "description", "location", "job_type", "wage", "owner_id", "owner_name",
		"owner_image", "requirements", "is_active", "applications", "created_at", "updated_at"}
	mock.ExpectQuery(q("WHERE title ILIKE $1 OR description ILIKE $1")).
		WithArgs(`%100\%%`).
		WillReturnRows(pgxmock.NewRows(cols))

	jobs, err := repo.Search(context.Background(), " 100% ")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobRepository_AddApplication(t *testing.T) {
	mock := newMock(t)
	repo := NewJobRepository(mock)

	mock.ExpectExec(q("array_append(applications, $2::uuid)")).
		WithArgs("job-1", "app-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.AddApplication(context.Background(), "job-1", "app-1"))
}

func TestJobRepository_GetByIDsEmptyShortCircuits(t *testing.T) {
	repo := NewJobRepository(newMock(t))
	out, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJobRepository_UpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewJobRepository(mock)

	mock.ExpectExec(q("UPDATE jobs")).
		WithArgs("T", "D", "L", "Contract", 10.0, []string{}, true, pgxmock.AnyArg(), "job-x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.Job{ID: "job-x", Title: "T", Description: "D", Location: "L",
		JobType: entity.JobTypeContract, Wage: 10, IsActive: true})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
