package application

import (
	"context"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
)

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Synchronizer keeps Job.Applications and User.AppliedJobs in line with the
// applications table. Every write is add-if-absent, so repeating a sync is safe.
// Nothing here is atomic across documents.
type Synchronizer struct {
	Users        repo.UserRepository
	Jobs         repo.JobRepository
	Applications repo.ApplicationRepository
	Logger       *logrus.Logger
}

func NewSynchronizer(users repo.UserRepository, jobs repo.JobRepository, apps repo.ApplicationRepository, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{Users: users, Jobs: jobs, Applications: apps, Logger: logger}
}

// SyncOnApply records app on its job and the job on the applicant, in that
// order, and mirrors both changes onto the passed structs.
func (s *Synchronizer) SyncOnApply(ctx context.Context, job *entity.Job, app *entity.Application, user *entity.User) error {
	if err := s.Jobs.AddApplication(ctx, job.ID, app.ID); err != nil {
		return storeFailure(err, "add application to job")
	}
	job.AddApplication(app.ID)

	if err := s.Users.AddAppliedJob(ctx, user.ID, app.JobID); err != nil {
		return storeFailure(err, "add job to applied jobs")
	}
	user.AddAppliedJob(app.JobID)
	return nil
}

// ProjectUserAppliedJobsWithStatus pairs each job in the user's applied list
// with the status of the user's application to it, newest application first.
// Entries without an application or without a job are logged and skipped.
func (s *Synchronizer) ProjectUserAppliedJobsWithStatus(ctx context.Context, userID string) ([]entity.AppliedJobStatus, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, invalidArgument("user id is required")
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupFailure(err, "user not found", "load user")
	}

	apps, err := s.Applications.ListRawByApplicant(ctx, userID)
	if err != nil {
		return nil, storeFailure(err, "list applications by applicant")
	}
	byJob := make(map[string]*entity.Application, len(apps))
	for _, a := range apps {
		byJob[a.JobID] = a
	}

	jobs, err := s.Jobs.GetByIDs(ctx, user.AppliedJobs)
	if err != nil {
		return nil, storeFailure(err, "load applied jobs")
	}

	out := make([]entity.AppliedJobStatus, 0, len(user.AppliedJobs))
	seen := make(map[string]struct{}, len(user.AppliedJobs))
	for _, jobID := range user.AppliedJobs {
		if _, dup := seen[jobID]; dup {
			continue
		}
		seen[jobID] = struct{}{}

		app, ok := byJob[jobID]
		if !ok {
			s.anomaly(userID, jobID, "applied job has no matching application")
			continue
		}
		job, ok := jobs[jobID]
		if !ok {
			s.anomaly(userID, jobID, "applied job no longer exists")
			continue
		}
		out = append(out, entity.AppliedJobStatus{
			Job:           job,
			ApplicationID: app.ID,
			Status:        app.Status,
			AppliedAt:     app.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

// ReconcileReport counts the cached lists rewritten by Reconcile.
type ReconcileReport struct {
	UsersFixed int `json:"users_fixed"`
	JobsFixed  int `json:"jobs_fixed"`
}

func (r *ReconcileReport) add(o ReconcileReport) {
	r.UsersFixed += o.UsersFixed
	r.JobsFixed += o.JobsFixed
}

// Reconcile recomputes the user's applied list and the applications list of
// every job they applied to from the applications table.
func (s *Synchronizer) Reconcile(ctx context.Context, userID string) (ReconcileReport, error) {
	var report ReconcileReport
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return report, lookupFailure(err, "user not found", "load user")
	}
	apps, err := s.Applications.ListRawByApplicant(ctx, userID)
	if err != nil {
		return report, storeFailure(err, "list applications by applicant")
	}

	// apps is newest first; the cached list is kept in arrival order.
	want := make([]string, 0, len(apps))
	for i := len(apps) - 1; i >= 0; i-- {
		want = append(want, apps[i].JobID)
	}
	if !slices.Equal(want, user.AppliedJobs) {
		if err := s.Users.SetAppliedJobs(ctx, userID, want); err != nil {
			return report, storeFailure(err, "rewrite applied jobs")
		}
		report.UsersFixed++
	}

	jobs, err := s.Jobs.GetByIDs(ctx, want)
	if err != nil {
		return report, storeFailure(err, "load applied jobs")
	}
	for _, jobID := range want {
		job, ok := jobs[jobID]
		if !ok {
			continue
		}
		fixed, err := s.reconcileJob(ctx, job)
		if err != nil {
			return report, err
		}
		if fixed {
			report.JobsFixed++
		}
	}
	if report != (ReconcileReport{}) {
		s.logger().WithFields(logrus.Fields{"user_id": userID, "users_fixed": report.UsersFixed, "jobs_fixed": report.JobsFixed}).
			Info("back-references reconciled")
	}
	return report, nil
}

// ReconcileAll runs Reconcile for every user and sums the results.
func (s *Synchronizer) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	var total ReconcileReport
	ids, err := s.Users.ListIDs(ctx)
	if err != nil {
		return total, storeFailure(err, "list users")
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		r, err := s.Reconcile(ctx, id)
		if err != nil {
			return total, err
		}
		total.add(r)
	}
	return total, nil
}

func (s *Synchronizer) reconcileJob(ctx context.Context, job *entity.Job) (bool, error) {
	apps, err := s.Applications.ListRawByJob(ctx, job.ID)
	if err != nil {
		return false, storeFailure(err, "list applications by job")
	}
	want := make([]string, 0, len(apps))
	for _, a := range apps {
		want = append(want, a.ID)
	}
	if slices.Equal(want, job.Applications) {
		return false, nil
	}
	if err := s.Jobs.SetApplications(ctx, job.ID, want); err != nil {
		return false, storeFailure(err, "rewrite job applications")
	}
	job.Applications = want
	return true, nil
}

func (s *Synchronizer) anomaly(userID, jobID, msg string) {
	syncAnomalies.Add(1)
	s.logger().WithFields(logrus.Fields{"user_id": userID, "job_id": jobID}).Warn(msg)
}

func (s *Synchronizer) logger() *logrus.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
