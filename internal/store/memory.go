package store

import (
	"context"
	"sync"
	"time"

	"github.com/recruithub/apiserver/types"
)

// MemoryRepository keeps users in process memory. It backs the server
// when no database is configured and serves as the directory in unit
// tests. Email lookup is case-sensitive, matching the postgres
// repository's equality semantics.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]types.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]types.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) Create(_ context.Context, user types.User) (types.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

// Delete removes a user. Only tests use it, to exercise the
// token-valid-but-user-gone path of the authorization gate.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, user.Email)
	return nil
}
