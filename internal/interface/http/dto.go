package handlers

import (
	"time"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	AppliedJobs []string  `json:"applied_jobs"`
	CreatedJobs []string  `json:"created_jobs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Bio:         u.Bio,
		Location:    u.Location,
		ImageURL:    u.ImageURL,
		AppliedJobs: nonNil(u.AppliedJobs),
		CreatedJobs: nonNil(u.CreatedJobs),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type jobResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	JobType      string    `json:"job_type"`
	Wage         float64   `json:"wage"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name"`
	OwnerImage   string    `json:"owner_image,omitempty"`
	Requirements []string  `json:"requirements"`
	IsActive     bool      `json:"is_active"`
	Applications []string  `json:"applications"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toJobResponse(j *entity.Job) jobResponse {
	return jobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		Location:     j.Location,
		JobType:      string(j.JobType),
		Wage:         j.Wage,
		OwnerID:      j.OwnerID,
		OwnerName:    j.OwnerName,
		OwnerImage:   j.OwnerImage,
		Requirements: nonNil(j.Requirements),
		IsActive:     j.IsActive,
		Applications: nonNil(j.Applications),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func toJobResponses(jobs []*entity.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}
	return out
}

type applicationResponse struct {
	ID          string             `json:"id"`
	JobID       string             `json:"job_id"`
	ApplicantID string             `json:"applicant_id"`
	Message     string             `json:"message,omitempty"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Job         *entity.JobSummary `json:"job,omitempty"`
	Applicant   *entity.Applicant  `json:"applicant,omitempty"`
}

func toApplicationResponse(a *entity.Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		Message:     a.Message,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func withJobs(in []entity.ApplicationWithJob) []applicationResponse {
	out := make([]applicationResponse, 0, len(in))
	for i := range in {
		r := toApplicationResponse(&in[i].Application)
		r.Job = &in[i].Job
		out = append(out, r)
	}
	return out
}

func withApplicants(in []entity.ApplicationWithApplicant) []applicationResponse {
	out := make([]applicationResponse, 0, len(in))
	for i := range in {
		r := toApplicationResponse(&in[i].Application)
		r.Applicant = &in[i].Applicant
		out = append(out, r)
	}
	return out
}

type appliedJobResponse struct {
	Job           jobResponse `json:"job"`
	ApplicationID string      `json:"application_id"`
	Status        string      `json:"status"`
	AppliedAt     time.Time   `json:"applied_at"`
}

func toAppliedJobs(in []entity.AppliedJobStatus) []appliedJobResponse {
	out := make([]appliedJobResponse, 0, len(in))
	for _, a := range in {
		out = append(out, appliedJobResponse{
			Job:           toJobResponse(a.Job),
			ApplicationID: a.ApplicationID,
			Status:        string(a.Status),
			AppliedAt:     a.AppliedAt,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
