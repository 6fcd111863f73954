package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/jobboard-api/pkg/mailer"
	mailtpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

// SubjectFor returns a fallback subject when a job carries neither a subject
// nor a renderable template.
func SubjectFor(job *mailer.EmailJob) string {
	if s := strings.TrimSpace(job.Subject); s != "" {
		return s
	}
	title := fmt.Sprintf("%v", job.Data["JobTitle"])
	switch strings.ToLower(job.Template) {
	case mailtpl.ApplicationReceived:
		return "New application for " + title
	case mailtpl.ApplicationStatus:
		return "Update on your application for " + title
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail fills Email/RecipientEmail from To when absent.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
