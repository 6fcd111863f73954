package application

import (
	"context"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
	tpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

var (
	applicationsCreated  = expvar.NewInt("applications_created")
	applicationConflicts = expvar.NewInt("application_conflicts")
	statusChanges        = expvar.NewInt("application_status_changes")
	syncAnomalies        = expvar.NewInt("application_sync_anomalies")
)

// Publisher enqueues a JSON payload; *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// notifier publishes application emails. A nil publisher or a disabled
// config turns every call into a no-op; publish errors are only logged.
type notifier struct {
	pub    Publisher
	cfg    *config.Config
	logger *logrus.Logger
}

func (n notifier) enabled() bool {
	return n.pub != nil && n.cfg != nil && n.cfg.NotifyEnabled
}

func (n notifier) applicationReceived(ctx context.Context, owner *entity.User, job *entity.Job, applicant *entity.User) {
	if !n.enabled() || owner == nil {
		return
	}
	data := tpl.NewApplicationReceivedData(n.cfg, owner.Name, owner.Email, job.Title, applicant.Name,
		tpl.WithTime(time.Now()))
	n.publish(ctx, mailer.EmailJob{To: owner.Email, Template: tpl.ApplicationReceived, Data: data})
}

func (n notifier) statusChanged(ctx context.Context, applicant *entity.User, job *entity.Job, status entity.ApplicationStatus) {
	if !n.enabled() || applicant == nil || job == nil {
		return
	}
	data := tpl.NewApplicationStatusData(n.cfg, applicant.Name, applicant.Email, job.Title, string(status),
		tpl.WithTime(time.Now()))
	n.publish(ctx, mailer.EmailJob{To: applicant.Email, Template: tpl.ApplicationStatus, Data: data})
}

func (n notifier) publish(ctx context.Context, job mailer.EmailJob) {
	if err := n.pub.PublishJSON(ctx, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).
			Warn("failed to publish notification")
	}
}
