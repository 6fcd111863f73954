package application

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
)

// LifecycleService creates applications and moves them between statuses.
// The applications table is authoritative; job and user back-references
// are maintained through the Synchronizer.
type LifecycleService struct {
	Users        repo.UserRepository
	Jobs         repo.JobRepository
	Applications repo.ApplicationRepository
	Sync         *Synchronizer
	Logger       *logrus.Logger
	notify       notifier
}

func NewLifecycleService(users repo.UserRepository, jobs repo.JobRepository, apps repo.ApplicationRepository, sync *Synchronizer, pub Publisher, cfg *config.Config, logger *logrus.Logger) *LifecycleService {
	return &LifecycleService{
		Users:        users,
		Jobs:         jobs,
		Applications: apps,
		Sync:         sync,
		Logger:       logger,
		notify:       notifier{pub: pub, cfg: cfg, logger: logger},
	}
}

// Apply files an application by applicantID against jobID.
//
// The existence check is an early exit only; the store's unique constraint
// on (job, applicant) decides races. When the pair already exists the
// back-references are re-synchronised before Conflict is returned, so a
// retry after a partial failure leaves them complete.
func (s *LifecycleService) Apply(ctx context.Context, jobID, applicantID, message string) (*entity.Application, error) {
	jobID = strings.TrimSpace(jobID)
	applicantID = strings.TrimSpace(applicantID)
	if jobID == "" {
		return nil, invalidArgument("job id is required")
	}
	if applicantID == "" {
		return nil, invalidArgument("applicant id is required")
	}

	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, lookupFailure(err, "job not found", "load job")
	}
	applicant, err := s.Users.GetByID(ctx, applicantID)
	if err != nil {
		return nil, lookupFailure(err, "user not found", "load applicant")
	}

	existing, err := s.Applications.FindByJobAndApplicant(ctx, jobID, applicantID)
	switch {
	case err == nil:
		return nil, s.alreadyApplied(ctx, job, existing, applicant)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, storeFailure(err, "check existing application")
	}

	app := &entity.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Message:     strings.TrimSpace(message),
		Status:      entity.StatusPending,
	}
	if err := s.Applications.Create(ctx, app); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			existing, ferr := s.Applications.FindByJobAndApplicant(ctx, jobID, applicantID)
			if ferr != nil {
				return nil, conflict("you have already applied for this job")
			}
			return nil, s.alreadyApplied(ctx, job, existing, applicant)
		}
		return nil, storeFailure(err, "create application")
	}
	applicationsCreated.Add(1)

	if err := s.Sync.SyncOnApply(ctx, job, app, applicant); err != nil {
		s.logger().WithError(err).WithFields(logrus.Fields{
			"application_id": app.ID,
			"job_id":         jobID,
			"user_id":        applicantID,
		}).Error("application stored but back-references not synchronised")
		return nil, err
	}

	s.logger().WithFields(logrus.Fields{"application_id": app.ID, "job_id": jobID, "user_id": applicantID}).
		Info("application created")

	if s.notify.enabled() {
		if owner, err := s.Users.GetByID(ctx, job.OwnerID); err == nil {
			s.notify.applicationReceived(ctx, owner, job, applicant)
		}
	}
	return app, nil
}

func (s *LifecycleService) alreadyApplied(ctx context.Context, job *entity.Job, existing *entity.Application, applicant *entity.User) error {
	applicationConflicts.Add(1)
	if err := s.Sync.SyncOnApply(ctx, job, existing, applicant); err != nil {
		s.logger().WithError(err).WithField("application_id", existing.ID).Warn("repair of back-references failed")
	}
	return conflict("you have already applied for this job")
}

// ListApplicationsForUser returns the user's applications with job summaries,
// newest first. No applications is an empty list, not an error.
func (s *LifecycleService) ListApplicationsForUser(ctx context.Context, userID string) ([]entity.ApplicationWithJob, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, invalidArgument("user id is required")
	}
	list, err := s.Applications.ListByApplicant(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []entity.ApplicationWithJob{}, nil
		}
		return nil, storeFailure(err, "list applications by applicant")
	}
	return list, nil
}

// ListApplicantsForJob returns the job's applications with restricted
// applicant details, newest first.
func (s *LifecycleService) ListApplicantsForJob(ctx context.Context, jobID string) ([]entity.ApplicationWithApplicant, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, invalidArgument("job id is required")
	}
	if _, err := s.Jobs.GetByID(ctx, jobID); err != nil {
		return nil, lookupFailure(err, "job not found", "load job")
	}
	list, err := s.Applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, storeFailure(err, "list applications by job")
	}
	return list, nil
}

// SetApplicationStatus assigns status unconditionally; every state is
// reachable from every other, including itself.
func (s *LifecycleService) SetApplicationStatus(ctx context.Context, applicationID, status string) (*entity.Application, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, invalidArgument("application id is required")
	}
	st, err := entity.ParseApplicationStatus(status)
	if err != nil {
		return nil, invalidArgument("invalid status")
	}

	app, err := s.Applications.UpdateStatus(ctx, applicationID, st)
	if err != nil {
		return nil, lookupFailure(err, "application not found", "update application status")
	}
	statusChanges.Add(1)
	s.logger().WithFields(logrus.Fields{"application_id": app.ID, "status": st}).Info("application status updated")

	if s.notify.enabled() {
		applicant, aerr := s.Users.GetByID(ctx, app.ApplicantID)
		job, jerr := s.Jobs.GetByID(ctx, app.JobID)
		if aerr == nil && jerr == nil {
			s.notify.statusChanged(ctx, applicant, job, st)
		}
	}
	return app, nil
}

func (s *LifecycleService) logger() *logrus.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
