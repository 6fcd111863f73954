package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// asUser stands in for the auth middleware.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, id)
		c.Next()
	}
}

// marked builds an error carrying one of the application kinds.
func marked(msg string, kind error) error { return errors.Mark(errors.New(msg), kind) }

type stubApplications struct {
	apply      func(jobID, applicantID, message string) (*entity.Application, error)
	forUser    func(userID string) ([]entity.ApplicationWithJob, error)
	forJob     func(jobID string) ([]entity.ApplicationWithApplicant, error)
	setStatus  func(id, status string) (*entity.Application, error)
	projection func(userID string) ([]entity.AppliedJobStatus, error)
}

func (s *stubApplications) Apply(_ context.Context, jobID, applicantID, message string) (*entity.Application, error) {
	return s.apply(jobID, applicantID, message)
}
func (s *stubApplications) ListApplicationsForUser(_ context.Context, userID string) ([]entity.ApplicationWithJob, error) {
	return s.forUser(userID)
}
func (s *stubApplications) ListApplicantsForJob(_ context.Context, jobID string) ([]entity.ApplicationWithApplicant, error) {
	return s.forJob(jobID)
}
func (s *stubApplications) SetApplicationStatus(_ context.Context, id, status string) (*entity.Application, error) {
	return s.setStatus(id, status)
}
func (s *stubApplications) ProjectUserAppliedJobsWithStatus(_ context.Context, userID string) ([]entity.AppliedJobStatus, error) {
	return s.projection(userID)
}

func applicationRouter(stub *stubApplications) *gin.Engine {
	h := NewApplicationHandler(stub, stub, nil)
	r := gin.New()
	g := r.Group("/api/applications", asUser("user-a"))
	g.POST("/apply/:jobId", h.Apply)
	g.GET("/applied", h.Applied)
	g.GET("/:jobId/applicants", h.Applicants)
	g.POST("/status/:id/update", h.UpdateStatus)
	g.GET("/appliedJobsProfile/:userId", h.AppliedJobsProfile)
	return r
}

func TestApply_Created(t *testing.T) {
	stub := &stubApplications{apply: func(jobID, applicantID, message string) (*entity.Application, error) {
		assert.Equal(t, "job-1", jobID)
		assert.Equal(t, "user-a", applicantID)
		assert.Equal(t, "hire me", message)
		return &entity.Application{ID: "app-1", JobID: jobID, ApplicantID: applicantID, Status: entity.StatusPending}, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodPost, "/api/applications/apply/job-1", gin.H{"message": "hire me"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var got applicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "pending", got.Status)
}

func TestApply_WithoutBody(t *testing.T) {
	stub := &stubApplications{apply: func(jobID, _, message string) (*entity.Application, error) {
		assert.Empty(t, message)
		return &entity.Application{ID: "app-1", JobID: jobID, Status: entity.StatusPending}, nil
	}}
	w, _ := do(t, applicationRouter(stub), http.MethodPost, "/api/applications/apply/job-1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestApply_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"conflict", marked("you have already applied for this job", app.ErrConflict), http.StatusConflict, "you have already applied for this job"},
		{"not found", marked("job not found", app.ErrNotFound), http.StatusNotFound, "job not found"},
		{"invalid", marked("job id is required", app.ErrInvalidArgument), http.StatusBadRequest, "job id is required"},
		{"store", errors.Mark(errors.Wrap(errors.New("pq: connection reset"), "create application"), app.ErrStoreFailure), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubApplications{apply: func(string, string, string) (*entity.Application, error) { return nil, tc.err }}
			w, env := do(t, applicationRouter(stub), http.MethodPost, "/api/applications/apply/job-1", gin.H{})
			assert.Equal(t, tc.code, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Message)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestApplied_EmptyListIsOK(t *testing.T) {
	stub := &stubApplications{forUser: func(userID string) ([]entity.ApplicationWithJob, error) {
		assert.Equal(t, "user-a", userID)
		return []entity.ApplicationWithJob{}, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodGet, "/api/applications/applied", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestApplicants_HidesPassword(t *testing.T) {
	stub := &stubApplications{forJob: func(jobID string) ([]entity.ApplicationWithApplicant, error) {
		assert.Equal(t, "job-1", jobID)
		return []entity.ApplicationWithApplicant{{
			Application: entity.Application{ID: "app-1", JobID: jobID, ApplicantID: "user-a", Status: entity.StatusPending},
			Applicant:   entity.Applicant{ID: "user-a", Name: "Alice", Email: "alice@example.com"},
		}}, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodGet, "/api/applications/job-1/applicants", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Alice"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUpdateStatus_NormalizesInput(t *testing.T) {
	stub := &stubApplications{setStatus: func(id, status string) (*entity.Application, error) {
		assert.Equal(t, "app-1", id)
		assert.Equal(t, "accepted", status)
		return &entity.Application{ID: id, Status: entity.StatusAccepted}, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodPost, "/api/applications/status/app-1/update", gin.H{"status": "  Accepted "})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"accepted"`)
}

func TestUpdateStatus_MissingStatus(t *testing.T) {
	stub := &stubApplications{setStatus: func(string, string) (*entity.Application, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodPost, "/api/applications/status/app-1/update", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid status", env.Message)
}

func TestAppliedJobsProfile(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubApplications{projection: func(userID string) ([]entity.AppliedJobStatus, error) {
		assert.Equal(t, "user-b", userID)
		return []entity.AppliedJobStatus{{
			Job: &entity.Job{ID: "job-1", Title: "Backend Engineer"}, ApplicationID: "app-1",
			Status: entity.StatusRejected, AppliedAt: at,
		}}, nil
	}}
	w, env := do(t, applicationRouter(stub), http.MethodGet, "/api/applications/appliedJobsProfile/user-b", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got []appliedJobResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "rejected", got[0].Status)
	assert.Equal(t, "Backend Engineer", got[0].Job.Title)
}

type stubJobs struct {
	created app.CreateJobInput
	update  func(callerID, jobID string) (*entity.Job, error)
	list    func(keyword string) ([]*entity.Job, error)
}

func (s *stubJobs) CreateJob(_ context.Context, ownerID string, in app.CreateJobInput) (*entity.Job, error) {
	s.created = in
	return &entity.Job{ID: "job-1", OwnerID: ownerID, Title: in.Title, JobType: entity.JobTypeFullTime, IsActive: true}, nil
}
func (s *stubJobs) UpdateJob(_ context.Context, callerID, jobID string, _ app.UpdateJobInput) (*entity.Job, error) {
	return s.update(callerID, jobID)
}
func (s *stubJobs) ListJobs(_ context.Context, keyword string) ([]*entity.Job, error) {
	return s.list(keyword)
}
func (s *stubJobs) GetJob(context.Context, string) (*entity.Job, error) {
	return nil, marked("job not found", app.ErrNotFound)
}
func (s *stubJobs) ListJobsByOwner(context.Context, string) ([]*entity.Job, error) {
	return []*entity.Job{}, nil
}

func jobRouter(stub *stubJobs) *gin.Engine {
	h := NewJobHandler(stub, nil)
	r := gin.New()
	g := r.Group("/api/jobs", asUser("owner-1"))
	g.POST("/post", h.Create)
	g.PUT("/update/:jobId", h.Update)
	g.GET("/get", h.List)
	g.GET("/get/:id", h.Get)
	g.GET("/getadminjobs/:id", h.ListByOwner)
	return r
}

func TestCreateJob_ValidatesJobTypeAndWage(t *testing.T) {
	stub := &stubJobs{}
	w, env := do(t, jobRouter(stub), http.MethodPost, "/api/jobs/post", gin.H{
		"title": "Backend Engineer", "description": "Go", "location": "Remote", "job_type": "Gig", "wage": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "job_type")
	assert.Contains(t, string(env.Error), "wage")
}

func TestCreateJob_Created(t *testing.T) {
	stub := &stubJobs{}
	w, env := do(t, jobRouter(stub), http.MethodPost, "/api/jobs/post", gin.H{
		"title": "Backend Engineer", "description": "Go", "location": "Remote", "wage": 100,
		"requirements": []string{"go", "sql"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"go", "sql"}, stub.created.Requirements)
	assert.Contains(t, string(env.Data), `"owner_id":"owner-1"`)
}

func TestUpdateJob_Forbidden(t *testing.T) {
	stub := &stubJobs{update: func(callerID, jobID string) (*entity.Job, error) {
		assert.Equal(t, "owner-1", callerID)
		assert.Equal(t, "job-9", jobID)
		return nil, marked("only the job owner can update this job", app.ErrForbidden)
	}}
	w, _ := do(t, jobRouter(stub), http.MethodPut, "/api/jobs/update/job-9", gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListJobs_PassesKeyword(t *testing.T) {
	stub := &stubJobs{list: func(keyword string) ([]*entity.Job, error) {
		assert.Equal(t, "engineer", keyword)
		return []*entity.Job{{ID: "j2"}, {ID: "j1"}}, nil
	}}
	w, env := do(t, jobRouter(stub), http.MethodGet, "/api/jobs/get?keyword=engineer", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got []jobResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "j2", got[0].ID)
}

func TestGetJob_NotFound(t *testing.T) {
	w, env := do(t, jobRouter(&stubJobs{}), http.MethodGet, "/api/jobs/get/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "job not found", env.Message)
}

type stubUsers struct {
	uploaded []byte
}

func (s *stubUsers) Register(_ context.Context, in app.RegisterInput) (*entity.User, error) {
	if in.Email == "taken@example.com" {
		return nil, marked("email already registered", app.ErrConflict)
	}
	return &entity.User{ID: "user-1", Name: in.Name, Email: in.Email, Password: "hash"}, nil
}
func (s *stubUsers) Login(context.Context, string, string) (*entity.User, app.TokenPair, error) {
	return &entity.User{ID: "user-1"}, app.TokenPair{
		AccessToken: "acc", AccessTokenExpiry: time.Now().Add(time.Hour),
		RefreshToken: "ref", RefreshTokenExpiry: time.Now().Add(24 * time.Hour),
	}, nil
}
func (s *stubUsers) Refresh(context.Context, string) (app.TokenPair, error) {
	return app.TokenPair{}, app.ErrInvalidCredentials
}
func (s *stubUsers) Logout(context.Context, string) {}
func (s *stubUsers) GetProfile(_ context.Context, id string) (*entity.User, error) {
	return &entity.User{ID: id, Name: "Alice", Password: "hash"}, nil
}
func (s *stubUsers) UpdateProfile(_ context.Context, id string, in app.UpdateProfileInput) (*entity.User, error) {
	return &entity.User{ID: id, Name: *in.Name}, nil
}
func (s *stubUsers) UploadImage(_ context.Context, _ string, r io.Reader, _, _ string) (string, error) {
	b, err := io.ReadAll(r)
	s.uploaded = b
	return "data:image/png;base64,AAAA", err
}

func userRouter(stub *stubUsers, maxImage int64) *gin.Engine {
	h := NewUserHandler(stub, nil, "localhost", false, maxImage)
	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.POST("/api/refresh", h.Refresh)
	auth := r.Group("/api", asUser("user-1"))
	auth.GET("/profile", h.GetProfile)
	auth.PUT("/profile", h.UpdateProfile)
	auth.POST("/profile/image", h.UploadImage)
	auth.POST("/logout", h.Logout)
	return r
}

func TestRegister(t *testing.T) {
	r := userRouter(&stubUsers{}, 0)

	w, env := do(t, r, http.MethodPost, "/api/register", gin.H{"name": "Alice", "email": "alice@example.com", "password": "longpassword"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, string(env.Data), "hash")

	w, _ = do(t, r, http.MethodPost, "/api/register", gin.H{"name": "Alice", "email": "taken@example.com", "password": "longpassword"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/register", gin.H{"name": "Alice", "email": "alice@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "password")
}

func TestLogin_SetsCookies(t *testing.T) {
	w, _ := do(t, userRouter(&stubUsers{}, 0), http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "longpassword"})
	assert.Equal(t, http.StatusOK, w.Code)
	names := map[string]bool{}
	for _, ck := range w.Result().Cookies() {
		names[ck.Name] = true
		assert.True(t, ck.HttpOnly)
	}
	assert.True(t, names["access_token"])
	assert.True(t, names["refresh_token"])
}

func TestRefresh_MissingCookie(t *testing.T) {
	w, env := do(t, userRouter(&stubUsers{}, 0), http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing refresh token", env.Message)
}

func TestProfile(t *testing.T) {
	r := userRouter(&stubUsers{}, 0)
	w, env := do(t, r, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"id":"user-1"`)
	assert.NotContains(t, w.Body.String(), "hash")

	w, env = do(t, r, http.MethodPut, "/api/profile", gin.H{"name": "Alicia"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Alicia"`)
}

func multipartImage(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	stub := &stubUsers{}
	body, ct := multipartImage(t, []byte("pngbytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/profile/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	userRouter(stub, 1<<20).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("pngbytes"), stub.uploaded)
	assert.Contains(t, w.Body.String(), "data:image/png;base64")
}

func TestUploadImage_TooLarge(t *testing.T) {
	body, ct := multipartImage(t, bytes.Repeat([]byte("x"), 64))
	req := httptest.NewRequest(http.MethodPost, "/api/profile/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	userRouter(&stubUsers{}, 16).ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
