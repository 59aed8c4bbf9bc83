package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// In-memory doubles shared by the service tests.

type stubUserRepo struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*domain.User
	students  map[int64]*domain.StudentProfile  // by user id
	providers map[int64]*domain.ProviderProfile // by user id

	failLastLogin bool
	failCreate    bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		nextID:    1,
		users:     make(map[int64]*domain.User),
		students:  make(map[int64]*domain.StudentProfile),
		providers: make(map[int64]*domain.ProviderProfile),
	}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) CreateStudent(_ context.Context, user *domain.User, profile *domain.StudentProfile) (*domain.User, error) {
	return r.create(user, func(id int64) {
		p := *profile
		p.ID = id
		p.UserID = id
		r.students[id] = &p
	})
}

func (r *stubUserRepo) CreateProvider(_ context.Context, user *domain.User, profile *domain.ProviderProfile) (*domain.User, error) {
	return r.create(user, func(id int64) {
		p := *profile
		p.ID = id
		p.UserID = id
		r.providers[id] = &p
	})
}

func (r *stubUserRepo) create(user *domain.User, attach func(id int64)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, domain.ErrStoreUnavailable
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *user
	clone.ID = r.nextID
	r.nextID++
	r.users[clone.ID] = &clone
	attach(clone.ID)
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Approve(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = true
	if p, ok := r.providers[userID]; ok {
		p.IsVerified = true
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.students, userID)
	delete(r.providers, userID)
	delete(r.users, userID)
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLastLogin {
		return domain.ErrStoreUnavailable
	}
	if u, ok := r.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *stubUserRepo) ListPending(_ context.Context) ([]ports.PendingUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.PendingUser
	for _, u := range r.users {
		if !u.IsVerified && u.Role != domain.RoleAdmin {
			out = append(out, ports.PendingUser{UserID: u.ID, Email: u.Email, Role: u.Role, FullName: u.FullName()})
		}
	}
	return out, nil
}

// stubUserRepo doubles as the ProfileRepository.

func (r *stubUserRepo) StudentByUserID(_ context.Context, userID int64) (*domain.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.students[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubUserRepo) ProviderByUserID(_ context.Context, userID int64) (*domain.ProviderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Principal
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Principal)}
}

func (s *stubSessionStore) Save(_ context.Context, id string, p *domain.Principal, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	s.sessions[id] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	clone := *p
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

type stubDocStore struct {
	mu      sync.Mutex
	nextID  int
	saved   []*ports.StoredFile
	deleted []string
	// failAt makes the n-th Save call fail (1-based); 0 disables.
	failAt int
	calls  int
}

func newStubDocStore() *stubDocStore {
	return &stubDocStore{}
}

func (d *stubDocStore) Save(category, prefix, originalName string, r io.Reader) (*ports.StoredFile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.failAt > 0 && d.calls == d.failAt {
		return nil, fmt.Errorf("disk full")
	}
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	d.nextID++
	name := fmt.Sprintf("%s_%d_%s", prefix, d.nextID, originalName)
	f := &ports.StoredFile{Name: name, Path: category + "/" + name, Size: 128, MimeType: "application/pdf"}
	d.saved = append(d.saved, f)
	return f, nil
}

func (d *stubDocStore) Delete(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, path)
	return nil
}

type stubScholarshipRepo struct {
	mu           sync.Mutex
	nextID       int64
	scholarships map[int64]*domain.Scholarship
}

func newStubScholarshipRepo() *stubScholarshipRepo {
	return &stubScholarshipRepo{nextID: 1, scholarships: make(map[int64]*domain.Scholarship)}
}

func (r *stubScholarshipRepo) Create(_ context.Context, s *domain.Scholarship) (*domain.Scholarship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	clone.ID = r.nextID
	r.nextID++
	r.scholarships[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubScholarshipRepo) Update(_ context.Context, s *domain.Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scholarships[s.ID]; !ok {
		return domain.ErrScholarshipNotFound
	}
	clone := *s
	r.scholarships[s.ID] = &clone
	return nil
}

func (r *stubScholarshipRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scholarships[id]; !ok {
		return domain.ErrScholarshipNotFound
	}
	delete(r.scholarships, id)
	return nil
}

func (r *stubScholarshipRepo) FindByID(_ context.Context, id int64) (*domain.Scholarship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scholarships[id]
	if !ok {
		return nil, domain.ErrScholarshipNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubScholarshipRepo) ListActive(_ context.Context) ([]domain.Scholarship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Scholarship
	for _, s := range r.scholarships {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubScholarshipRepo) ListByProvider(_ context.Context, providerID int64) ([]domain.Scholarship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Scholarship
	for _, s := range r.scholarships {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubScholarshipRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scholarships[id]
	if !ok {
		return domain.ErrScholarshipNotFound
	}
	s.IsActive = active
	return nil
}

type stubApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]*domain.Application
	docs   map[int64][]domain.ApplicationDocument
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{
		nextID: 1,
		apps:   make(map[int64]*domain.Application),
		docs:   make(map[int64][]domain.ApplicationDocument),
	}
}

func (r *stubApplicationRepo) Create(_ context.Context, app *domain.Application, docs []domain.ApplicationDocument) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.StudentID == app.StudentID && a.ScholarshipID == app.ScholarshipID {
			return nil, domain.ErrDuplicateApplication
		}
	}
	clone := *app
	clone.ID = r.nextID
	r.nextID++
	r.apps[clone.ID] = &clone
	for i := range docs {
		docs[i].ApplicationID = clone.ID
	}
	r.docs[clone.ID] = docs
	out := clone
	return &out, nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApplicationRepo) FindByStudentAndScholarship(_ context.Context, studentID, scholarshipID int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.StudentID == studentID && a.ScholarshipID == scholarshipID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus, notes string, reviewedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	a.ReviewerNotes = notes
	a.ReviewedAt = &reviewedAt
	return nil
}

func (r *stubApplicationRepo) ListByProvider(_ context.Context, _ int64) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Application
	for _, a := range r.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubApplicationRepo) Documents(_ context.Context, applicationID int64) ([]domain.ApplicationDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[applicationID], nil
}

func (r *stubApplicationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

type stubTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]*domain.PasswordResetToken
	users  *stubUserRepo
}

func newStubTokenRepo(users *stubUserRepo) *stubTokenRepo {
	return &stubTokenRepo{nextID: 1, tokens: make(map[string]*domain.PasswordResetToken), users: users}
}

func (r *stubTokenRepo) Create(_ context.Context, t *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	clone.ID = r.nextID
	r.nextID++
	r.tokens[clone.Token] = &clone
	t.ID = clone.ID
	return nil
}

func (r *stubTokenRepo) FindByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTokenRepo) Consume(ctx context.Context, tokenID, userID int64, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == tokenID {
			t.Used = true
			r.users.mu.Lock()
			if u, ok := r.users.users[userID]; ok {
				u.PasswordHash = newPasswordHash
			}
			r.users.mu.Unlock()
			return nil
		}
	}
	return domain.ErrTokenNotFound
}

func (r *stubTokenRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

type stubSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{values: make(map[string]string)}
}

func (r *stubSettingsRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *stubSettingsRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *stubSettingsRepo) All(_ context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}

type stubNotifier struct {
	mu    sync.Mutex
	links []string
	to    []string
}

func (n *stubNotifier) SendResetLink(_ context.Context, email, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.to = append(n.to, email)
	n.links = append(n.links, link)
}
