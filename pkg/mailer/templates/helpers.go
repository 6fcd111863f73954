package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/jobboard-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithMessage(msg string) Option {
	return func(d *EmailData) { d.Message = strings.TrimSpace(msg) }
}

func WithDashboardURL(url string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(url); s != "" {
			d.DashboardURL = s
		}
	}
}

// NewBaseEmailData fills the shared fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		DashboardURL:   cfg.DashboardURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewApplicationReceivedData is sent to a job owner when someone applies.
func NewApplicationReceivedData(cfg *config.Config, ownerName, ownerEmail, jobTitle, applicantName string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ApplicationReceived, ownerName, ownerEmail, opts...)
	d.JobTitle = jobTitle
	d.ApplicantName = applicantName
	return ToMap(d)
}

// NewApplicationStatusData is sent to an applicant when the owner decides.
func NewApplicationStatusData(cfg *config.Config, name, email, jobTitle, status string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ApplicationStatus, name, email, opts...)
	d.JobTitle = jobTitle
	d.Status = status
	return ToMap(d)
}
