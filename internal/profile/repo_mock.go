package profile

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/apperr"
)

// RepoMock keeps profiles in memory. Documents are stored serialized, so
// callers never share state with the store, like with the postgres repo.
type RepoMock struct {
	mutex    sync.Mutex
	profiles map[string][]byte
	hashes   map[string]string
	byEmail  map[string]string
	// Now stamps created and updated times.
	Now func() time.Time
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		profiles: map[string][]byte{},
		hashes:   map[string]string{},
		byEmail:  map[string]string{},
		Now:      time.Now,
	}
}

func (r *RepoMock) Create(_ context.Context, p *Profile) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.byEmail[p.Email]; ok {
		return ErrUserExists
	}
	if _, ok := r.profiles[p.ID]; ok {
		return ErrUserExists
	}

	p.EnsureInitialized()
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	if err := r.store(p); err != nil {
		return err
	}
	r.byEmail[p.Email] = p.ID
	return nil
}

func (r *RepoMock) Get(_ context.Context, id string) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.load(id)
}

func (r *RepoMock) GetByEmail(_ context.Context, email string) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return r.load(id)
}

func (r *RepoMock) Modify(_ context.Context, id string, fn func(p *Profile) error) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = r.Now()
	if err := r.store(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *RepoMock) store(p *Profile) error {
	document, err := json.Marshal(p)
	if err != nil {
		return err
	}
	r.profiles[p.ID] = document
	r.hashes[p.ID] = p.PasswordHash
	return nil
}

func (r *RepoMock) load(id string) (*Profile, error) {
	document, ok := r.profiles[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	var p Profile
	if err := json.Unmarshal(document, &p); err != nil {
		return nil, err
	}
	p.PasswordHash = r.hashes[id]
	p.EnsureInitialized()
	return &p, nil
}
