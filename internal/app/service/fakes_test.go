package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"inkfolio/internal/common"
	"inkfolio/internal/domain/model"
)

type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
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

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := r.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

type fakeSessions struct {
	m       map[string]string
	counter int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]string)}
}

func (s *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	s.counter++
	sid := fmt.Sprintf("sid-%d", s.counter)
	s.m[sid] = userID
	return sid, nil
}

func (s *fakeSessions) Lookup(_ context.Context, sid string) (string, error) {
	if userID, ok := s.m[sid]; ok {
		return userID, nil
	}
	return "", common.ErrUnauthorized
}

func (s *fakeSessions) Destroy(_ context.Context, sid string) error {
	delete(s.m, sid)
	return nil
}

type fakePostRepo struct {
	posts       map[string]*model.Post
	createCalls int
	clock       time.Time
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post), clock: time.Unix(1_700_000_000, 0)}
}

func (r *fakePostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	r.createCalls++
	p := *post
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.posts[p.ID] = &p
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakePostRepo) List(_ context.Context, featured *bool, limit, offset int) ([]model.Post, int, error) {
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

func (r *fakePostRepo) Update(_ context.Context, post *model.Post) error {
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

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*model.Project
	clock    time.Time
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*model.Project), clock: time.Unix(1_700_000_000, 0)}
}

func (r *fakeProjectRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	p := *project
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.projects[p.ID] = &p
	return nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := r.projects[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeProjectRepo) List(_ context.Context, featured *bool, limit, offset int) ([]model.Project, int, error) {
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

func (r *fakeProjectRepo) Update(_ context.Context, project *model.Project) error {
	existing, ok := r.projects[project.ID]
	if !ok {
		return common.ErrNotFound
	}
	p := *project
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.tick()
	r.projects[p.ID] = &p
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeAssets struct {
	saved    map[string][]byte
	deleted  []string
	failSave bool
	counter  int
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{saved: make(map[string][]byte)}
}

func (a *fakeAssets) Save(data []byte, originalName string) (string, error) {
	if a.failSave {
		return "", fmt.Errorf("writing asset: %w", common.ErrStorage)
	}
	a.counter++
	name := fmt.Sprintf("%s-%d", originalName, a.counter)
	a.saved[name] = data
	return name, nil
}

func (a *fakeAssets) Delete(storedName string) error {
	a.deleted = append(a.deleted, storedName)
	delete(a.saved, storedName)
	return nil
}
