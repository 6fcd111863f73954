package application

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
)

// memStore backs the fake repositories with maps guarded by one mutex.
// Creation times advance one second per write so ordering is deterministic.
type memStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time

	users map[string]*entity.User
	jobs  map[string]*entity.Job
	apps  map[string]*entity.Application

	// failures to inject
	addAppliedJobErr error
	listRawErr       error
	findMisses       int
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		users: map[string]*entity.User{},
		jobs:  map[string]*entity.Job{},
		apps:  map[string]*entity.Application{},
	}
}

func (m *memStore) next(prefix string) (string, time.Time) {
	m.seq++
	return prefix + strconv.Itoa(m.seq), m.clock.Add(time.Duration(m.seq) * time.Second)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.AppliedJobs = slices.Clone(u.AppliedJobs)
	c.CreatedJobs = slices.Clone(u.CreatedJobs)
	return &c
}

func cloneJob(j *entity.Job) *entity.Job {
	c := *j
	c.Applications = slices.Clone(j.Applications)
	c.Requirements = slices.Clone(j.Requirements)
	return &c
}

func cloneApp(a *entity.Application) *entity.Application {
	c := *a
	return &c
}

func (m *memStore) repos() (fakeUsers, fakeJobs, fakeApps) {
	return fakeUsers{m}, fakeJobs{m}, fakeApps{m}
}

// user and job seed helpers bypass the services.
func (m *memStore) addUser(name, email string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, at := m.next("u")
	u := &entity.User{ID: id, Name: name, Email: email, Location: entity.DefaultLocation, CreatedAt: at, UpdatedAt: at}
	m.users[id] = u
	return cloneUser(u)
}

func (m *memStore) addJob(ownerID, title string, wage float64) *entity.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, at := m.next("j")
	j := &entity.Job{ID: id, Title: title, Description: title + " role", Location: "Remote", JobType: entity.JobTypeFullTime,
		Wage: wage, OwnerID: ownerID, IsActive: true, CreatedAt: at, UpdatedAt: at}
	m.jobs[id] = j
	if u, ok := m.users[ownerID]; ok {
		u.AddCreatedJob(id)
	}
	return cloneJob(j)
}

func (m *memStore) user(id string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneUser(m.users[id])
}

func (m *memStore) job(id string) *entity.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneJob(m.jobs[id])
}

func (m *memStore) app(id string) *entity.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneApp(m.apps[id])
}

func (m *memStore) appCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.apps)
}

type fakeUsers struct{ m *memStore }

func (f fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.ID, u.CreatedAt = f.m.next("u")
	u.UpdatedAt = u.CreatedAt
	if u.Location == "" {
		u.Location = entity.DefaultLocation
	}
	f.m.users[u.ID] = cloneUser(u)
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, u := range f.m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	f.m.users[u.ID] = cloneUser(u)
	return nil
}

func (f fakeUsers) AddAppliedJob(_ context.Context, userID, jobID string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.addAppliedJobErr; err != nil {
		f.m.addAppliedJobErr = nil
		return err
	}
	u, ok := f.m.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.AddAppliedJob(jobID)
	return nil
}

func (f fakeUsers) AddCreatedJob(_ context.Context, userID, jobID string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.AddCreatedJob(jobID)
	return nil
}

func (f fakeUsers) SetAppliedJobs(_ context.Context, userID string, jobIDs []string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.AppliedJobs = slices.Clone(jobIDs)
	return nil
}

func (f fakeUsers) ListIDs(_ context.Context) ([]string, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	ids := make([]string, 0, len(f.m.users))
	for id := range f.m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeJobs struct{ m *memStore }

func (f fakeJobs) Create(_ context.Context, j *entity.Job) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	j.ID, j.CreatedAt = f.m.next("j")
	j.UpdatedAt = j.CreatedAt
	f.m.jobs[j.ID] = cloneJob(j)
	return nil
}

func (f fakeJobs) GetByID(_ context.Context, id string) (*entity.Job, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	j, ok := f.m.jobs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneJob(j), nil
}

func (f fakeJobs) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Job, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make(map[string]*entity.Job, len(ids))
	for _, id := range ids {
		if j, ok := f.m.jobs[id]; ok {
			out[id] = cloneJob(j)
		}
	}
	return out, nil
}

func (f fakeJobs) Update(_ context.Context, j *entity.Job) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.jobs[j.ID]; !ok {
		return repo.ErrNotFound
	}
	f.m.jobs[j.ID] = cloneJob(j)
	return nil
}

func (f fakeJobs) Search(_ context.Context, keyword string) ([]*entity.Job, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	kw := strings.ToLower(keyword)
	var out []*entity.Job
	for _, j := range f.m.jobs {
		if kw == "" || strings.Contains(strings.ToLower(j.Title), kw) || strings.Contains(strings.ToLower(j.Description), kw) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (f fakeJobs) ListByOwner(_ context.Context, ownerID string) ([]*entity.Job, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Job
	for _, j := range f.m.jobs {
		if j.OwnerID == ownerID {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (f fakeJobs) AddApplication(_ context.Context, jobID, applicationID string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	j, ok := f.m.jobs[jobID]
	if !ok {
		return repo.ErrNotFound
	}
	j.AddApplication(applicationID)
	return nil
}

func (f fakeJobs) SetApplications(_ context.Context, jobID string, applicationIDs []string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	j, ok := f.m.jobs[jobID]
	if !ok {
		return repo.ErrNotFound
	}
	j.Applications = slices.Clone(applicationIDs)
	return nil
}

type fakeApps struct{ m *memStore }

func (f fakeApps) Create(_ context.Context, a *entity.Application) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return repo.ErrDuplicate
		}
	}
	a.ID, a.CreatedAt = f.m.next("a")
	a.UpdatedAt = a.CreatedAt
	f.m.apps[a.ID] = cloneApp(a)
	return nil
}

func (f fakeApps) GetByID(_ context.Context, id string) (*entity.Application, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.apps[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneApp(a), nil
}

func (f fakeApps) FindByJobAndApplicant(_ context.Context, jobID, applicantID string) (*entity.Application, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.findMisses > 0 {
		f.m.findMisses--
		return nil, repo.ErrNotFound
	}
	for _, a := range f.m.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return cloneApp(a), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f fakeApps) UpdateStatus(_ context.Context, id string, status entity.ApplicationStatus) (*entity.Application, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.apps[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	a.Status = status
	return cloneApp(a), nil
}

func (f fakeApps) ListByApplicant(_ context.Context, applicantID string) ([]entity.ApplicationWithJob, error) {
	raw, _ := f.ListRawByApplicant(context.Background(), applicantID)
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make([]entity.ApplicationWithJob, 0, len(raw))
	for _, a := range raw {
		j, ok := f.m.jobs[a.JobID]
		if !ok {
			continue
		}
		out = append(out, entity.ApplicationWithJob{Application: *a, Job: j.Summary()})
	}
	return out, nil
}

func (f fakeApps) ListByJob(_ context.Context, jobID string) ([]entity.ApplicationWithApplicant, error) {
	raw, _ := f.ListRawByJob(context.Background(), jobID)
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make([]entity.ApplicationWithApplicant, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		a := raw[i]
		u, ok := f.m.users[a.ApplicantID]
		if !ok {
			continue
		}
		out = append(out, entity.ApplicationWithApplicant{Application: *a, Applicant: u.Applicant()})
	}
	return out, nil
}

func (f fakeApps) ListRawByApplicant(_ context.Context, applicantID string) ([]*entity.Application, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.listRawErr != nil {
		return nil, f.m.listRawErr
	}
	out := f.m.filterApps(func(a *entity.Application) bool { return a.ApplicantID == applicantID })
	slices.Reverse(out)
	return out, nil
}

func (f fakeApps) ListRawByJob(_ context.Context, jobID string) ([]*entity.Application, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.listRawErr != nil {
		return nil, f.m.listRawErr
	}
	return f.m.filterApps(func(a *entity.Application) bool { return a.JobID == jobID }), nil
}

// filterApps returns matching applications oldest first.
func (m *memStore) filterApps(keep func(*entity.Application) bool) []*entity.Application {
	var out []*entity.Application
	for _, a := range m.apps {
		if keep(a) {
			out = append(out, cloneApp(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type recordingPublisher struct {
	mu   sync.Mutex
	err  error
	jobs []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return p.err
}

func (p *recordingPublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.jobs)
}

type fakeIndex struct {
	indexed   []string
	ids       []string
	searchErr error
}

func (f *fakeIndex) IndexJob(_ context.Context, j *entity.Job) error {
	f.indexed = append(f.indexed, j.ID)
	return nil
}

func (f *fakeIndex) SearchJobIDs(_ context.Context, _ string, _ int) ([]string, error) {
	return f.ids, f.searchErr
}
