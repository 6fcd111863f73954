package entity

import (
	"fmt"
	"time"
)

// JobType is one of the fixed employment kinds a job can be posted as.
type JobType string

const (
	JobTypeFullTime  JobType = "Full-Time"
	JobTypePartTime  JobType = "Part-Time"
	JobTypeContract  JobType = "Contract"
	JobTypeTemporary JobType = "Temporary"
)

// JobTypes lists the accepted values in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary}

// ParseJobType returns the matching JobType; an empty string defaults to Full-Time.
func ParseJobType(s string) (JobType, error) {
	if s == "" {
		return JobTypeFullTime, nil
	}
	for _, t := range JobTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Job is a posting owned by the user who created it.
// Applications holds application ids in arrival order.
type Job struct {
	ID           string
	Title        string
	Description  string
	Location     string
	JobType      JobType
	Wage         float64
	OwnerID      string
	OwnerName    string
	OwnerImage   string
	Requirements []string
	IsActive     bool
	Applications []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AddApplication appends applicationID when absent and reports whether it changed.
func (j *Job) AddApplication(applicationID string) bool {
	var added bool
	j.Applications, added = addIfAbsent(j.Applications, applicationID)
	return added
}

// JobSummary is the subset of a job attached to application listings.
type JobSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	JobType   JobType `json:"job_type"`
	Wage      float64 `json:"wage"`
	OwnerName string  `json:"owner_name"`
	IsActive  bool    `json:"is_active"`
}

func (j *Job) Summary() JobSummary {
	return JobSummary{
		ID:        j.ID,
		Title:     j.Title,
		Location:  j.Location,
		JobType:   j.JobType,
		Wage:      j.Wage,
		OwnerName: j.OwnerName,
		IsActive:  j.IsActive,
	}
}
