package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"inkfolio/internal/api/middleware"
	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
	"inkfolio/internal/common/security"
	"inkfolio/internal/domain/model"
	"inkfolio/internal/platform/config"
)

// In-memory stand-ins for postgres, redis and the disk store, so the whole
// request path (router, token verification, guards, handlers, services) runs
// in-process.

type memUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
	}
	u := *user
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := r.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

type memSessions struct {
	m       map[string]string
	counter int
}

func (s *memSessions) Create(_ context.Context, userID string) (string, error) {
	s.counter++
	sid := fmt.Sprintf("sid-%d", s.counter)
	s.m[sid] = userID
	return sid, nil
}

func (s *memSessions) Lookup(_ context.Context, sid string) (string, error) {
	if userID, ok := s.m[sid]; ok {
		return userID, nil
	}
	return "", common.ErrUnauthorized
}

func (s *memSessions) Destroy(_ context.Context, sid string) error {
	delete(s.m, sid)
	return nil
}

type memPostRepo struct {
	posts       map[string]*model.Post
	createCalls int
	clock       time.Time
}

func (r *memPostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memPostRepo) Create(_ context.Context, post *model.Post) error {
	r.createCalls++
	p := *post
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.posts[p.ID] = &p
	return nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memPostRepo) List(_ context.Context, featured *bool, limit, offset int) ([]model.Post, int, error) {
	var all []model.Post
	for _, p := range r.posts {
		if featured != nil && p.Featured != *featured {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memPostRepo) Update(_ context.Context, post *model.Post) error {
	existing, ok := r.posts[post.ID]
	if !ok {
		return common.ErrNotFound
	}
	p := *post
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.tick()
	r.posts[p.ID] = &p
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type memProjectRepo struct {
	projects map[string]*model.Project
	clock    time.Time
}

func (r *memProjectRepo) Create(_ context.Context, project *model.Project) error {
	p := *project
	r.clock = r.clock.Add(time.Second)
	p.CreatedAt = r.clock
	p.UpdatedAt = p.CreatedAt
	r.projects[p.ID] = &p
	return nil
}

func (r *memProjectRepo) FindByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := r.projects[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *memProjectRepo) List(_ context.Context, featured *bool, limit, offset int) ([]model.Project, int, error) {
	var all []model.Project
	for _, p := range r.projects {
		if featured != nil && p.Featured != *featured {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memProjectRepo) Update(_ context.Context, project *model.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return common.ErrNotFound
	}
	p := *project
	r.projects[p.ID] = &p
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type memAssets struct {
	saved   map[string][]byte
	counter int
}

func (a *memAssets) Save(data []byte, originalName string) (string, error) {
	a.counter++
	name := fmt.Sprintf("%s-%d", originalName, a.counter)
	a.saved[name] = data
	return name, nil
}

func (a *memAssets) Delete(storedName string) error {
	delete(a.saved, storedName)
	return nil
}

type testApp struct {
	router   http.Handler
	users    *memUserRepo
	sessions *memSessions
	posts    *memPostRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		SessionTTL:     time.Hour,
		MaxUploadBytes: 8 << 20,
		PageSize:       12,
		AdminEmail:     "admin@x.com",
	}

	users := &memUserRepo{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
	sessions := &memSessions{m: map[string]string{}}
	posts := &memPostRepo{posts: map[string]*model.Post{}, clock: time.Unix(1_700_000_000, 0)}
	projects := &memProjectRepo{projects: map[string]*model.Project{}, clock: time.Unix(1_700_000_000, 0)}
	assets := &memAssets{saved: map[string][]byte{}}

	tokenAuth := security.NewTokenAuth([]byte("test-secret"))
	issuer := security.NewTokenIssuer(tokenAuth, cfg.SessionTTL)

	authService := service.NewAuthService(users, sessions, issuer, cfg.AdminEmail)
	postService := service.NewPostService(posts, assets, cfg.PageSize)
	projectService := service.NewProjectService(projects, assets, cfg.PageSize)
	authn := middleware.NewAuthenticator(sessions, users)

	return &testApp{
		router:   NewRouter(cfg, tokenAuth, authn, authService, postService, projectService),
		users:    users,
		sessions: sessions,
		posts:    posts,
	}
}

func (app *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) register(t *testing.T, name, email, password string) {
	t.Helper()
	rec := app.postForm("/register", url.Values{
		"name":             {name},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
}

func (app *testApp) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := app.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestRegisterRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/register", url.Values{
		"name":             {"Al"},
		"email":            {"a@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}, nil)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if len(app.users.byEmail) != 1 {
		t.Errorf("user count = %d, want 1", len(app.users.byEmail))
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "a@x.com", "secret1")

	rec := app.postForm("/register", url.Values{
		"name":             {"Other"},
		"email":            {"a@x.com"},
		"password":         {"secret2"},
		"confirm_password": {"secret2"},
	}, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
	if len(app.users.byEmail) != 1 {
		t.Errorf("duplicate registration created a row")
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/register", url.Values{
		"name":             {"A"},
		"email":            {"bad"},
		"password":         {"secret1"},
		"confirm_password": {"different"},
	}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "fields") {
		t.Errorf("validation response lacks field messages: %s", body)
	}
}

func TestLoginSetsSessionCookieAndRedirectsHome(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "a@x.com", "secret1")

	rec := app.postForm("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"secret1"},
	}, nil)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	if len(app.sessions.m) != 1 {
		t.Errorf("session count = %d, want 1", len(app.sessions.m))
	}
}

func TestLoginFailureResponsesAreIdentical(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "a@x.com", "secret1")

	wrongPass := app.postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"wrong1"}}, nil)
	unknownEmail := app.postForm("/login", url.Values{"email": {"nobody@x.com"}, "password": {"secret1"}}, nil)

	if wrongPass.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d and %d, want 401 for both", wrongPass.Code, unknownEmail.Code)
	}
	if wrongPass.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies differ:\n%s\n%s", wrongPass.Body.String(), unknownEmail.Body.String())
	}
	if len(app.sessions.m) != 0 {
		t.Errorf("failed logins created %d session(s)", len(app.sessions.m))
	}
}

func TestLogoutDestroysSessionServerSide(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "admin@x.com", "secret1")
	cookie := app.login(t, "admin@x.com", "secret1")

	rec := app.get("/logout", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if len(app.sessions.m) != 0 {
		t.Fatalf("session survived logout")
	}

	// The old cookie still carries a validly signed token, but the session
	// behind it is gone: admin routes must reject it.
	rec = app.postForm("/post/new", url.Values{"title": {"x"}, "body": {"y"}}, cookie)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stale cookie status = %d, want 403", rec.Code)
	}
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/logout", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous logout status = %d, want 401", rec.Code)
	}
}

func TestContentMutationRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "user@x.com", "secret1")
	cookie := app.login(t, "user@x.com", "secret1")

	form := url.Values{"title": {"Hello"}, "body": {"world"}}
	paths := []string{"/post/new", "/post/some-id/edit", "/post/some-id/delete",
		"/project/new", "/project/some-id/edit", "/project/some-id/delete"}

	for _, path := range paths {
		t.Run(path+" anonymous", func(t *testing.T) {
			if rec := app.postForm(path, form, nil); rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
		t.Run(path+" non-admin", func(t *testing.T) {
			if rec := app.postForm(path, form, cookie); rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}

	if app.posts.createCalls != 0 {
		t.Errorf("forbidden requests reached the repository (%d create calls)", app.posts.createCalls)
	}
}

func TestAdminCreateEditDeletePost(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Al", "admin@x.com", "secret1")
	cookie := app.login(t, "admin@x.com", "secret1")

	rec := app.postForm("/post/new", url.Values{
		"title":    {"First post"},
		"body":     {"# hello"},
		"featured": {"on"},
	}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/post/") {
		t.Fatalf("create Location = %q", loc)
	}
	postID := strings.TrimPrefix(loc, "/post/")

	if rec := app.get(loc, nil); rec.Code != http.StatusOK {
		t.Errorf("public GET %s status = %d", loc, rec.Code)
	}

	rec = app.postForm("/post/"+postID+"/edit", url.Values{"title": {"Renamed"}}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, body %s", rec.Code, rec.Body.String())
	}
	if app.posts.posts[postID].Title != "Renamed" {
		t.Errorf("edit did not apply, title = %q", app.posts.posts[postID].Title)
	}
	if app.posts.posts[postID].Body != "# hello" {
		t.Errorf("partial edit clobbered body: %q", app.posts.posts[postID].Body)
	}

	rec = app.postForm("/post/"+postID+"/delete", nil, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := app.get(loc, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted post GET status = %d, want 404", rec.Code)
	}
}

func TestGetMissingPostIs404(t *testing.T) {
	app := newTestApp(t)
	if rec := app.get("/post/does-not-exist", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPublicListingsAreOpen(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/blog", "/projects", "/blog?page=3"} {
		if rec := app.get(path, nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}
