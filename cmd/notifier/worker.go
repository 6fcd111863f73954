package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
	mailtpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

const sendTimeout = 15 * time.Second

// outcome tells the consumer loop how to settle a delivery.
type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

type worker struct {
	sender mailer.Sender
	logger *logrus.Logger
}

// handle renders and sends one queued email job. Malformed or unrenderable
// jobs are dropped; delivery failures are requeued.
func (w worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		w.logger.Warn("message without recipient")
		return drop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html, err := render(job)
	if err != nil {
		helpers.LogError(w.logger, "render failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "send failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return requeue
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"template": job.Template, "to": job.To})
	return ack
}

func render(job mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return "", "", "", errors.New("empty message")
		}
		return helpers.SubjectFor(&job), job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", errors.Newf("unknown template %q", job.Template)
	}
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if subject == "" {
		subject = helpers.SubjectFor(&job)
	}
	return subject, text, html, nil
}
