package entity

import (
	"fmt"
	"time"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every state; any state may move to any other.
var ApplicationStatuses = []ApplicationStatus{StatusPending, StatusAccepted, StatusRejected}

// ParseApplicationStatus is case-sensitive; callers normalise at the edge.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	for _, st := range ApplicationStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Application links an applicant to a job. At most one exists per (JobID, ApplicantID).
type Application struct {
	ID          string
	JobID       string
	ApplicantID string
	Message     string
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicationWithJob is an application as seen by its applicant.
type ApplicationWithJob struct {
	Application
	Job JobSummary
}

// ApplicationWithApplicant is an application as seen by the job owner.
type ApplicationWithApplicant struct {
	Application
	Applicant Applicant
}

// AppliedJobStatus pairs a job from a user's applied list with the status of their application.
type AppliedJobStatus struct {
	Job           *Job
	ApplicationID string
	Status        ApplicationStatus
	AppliedAt     time.Time
}
