package entity

import (
	"time"
)

// DefaultLocation is stored when a user registers without a profile location.
const DefaultLocation = "Unknown"

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
//
// AppliedJobs and CreatedJobs are denormalised caches: the applications
// and jobs tables remain the source of truth.
type User struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Password    string
	Bio         string
	Location    string
	ImageURL    string
	AppliedJobs []string
	CreatedJobs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Applicant is the restricted view of a user shown to employers.
type Applicant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (u *User) Applicant() Applicant {
	return Applicant{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// HasAppliedTo reports whether jobID is already in the applied list.
func (u *User) HasAppliedTo(jobID string) bool {
	return contains(u.AppliedJobs, jobID)
}

// AddAppliedJob appends jobID when absent and reports whether it changed.
func (u *User) AddAppliedJob(jobID string) bool {
	var added bool
	u.AppliedJobs, added = addIfAbsent(u.AppliedJobs, jobID)
	return added
}

// AddCreatedJob appends jobID when absent and reports whether it changed.
func (u *User) AddCreatedJob(jobID string) bool {
	var added bool
	u.CreatedJobs, added = addIfAbsent(u.CreatedJobs, jobID)
	return added
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func addIfAbsent(list []string, v string) ([]string, bool) {
	if contains(list, v) {
		return list, false
	}
	return append(list, v), true
}
