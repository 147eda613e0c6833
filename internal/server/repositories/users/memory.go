package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/server/models"
)

type identityKey struct {
	provider string
	subject  string
}

// InMemoryRepository keeps users in process memory. It backs the server
// when no database DSN is configured and serves as a test double.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	byKey  map[identityKey]int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[int64]*models.User),
		byKey: make(map[identityKey]int64),
	}
}

func (r *InMemoryRepository) FindOrCreate(_ context.Context, u *models.User) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := identityKey{u.Provider, u.Subject}
	if id, ok := r.byKey[key]; ok {
		stored := r.byID[id]
		if u.Email != "" {
			stored.Email = u.Email
		}
		if u.Name != "" {
			stored.Name = u.Name
		}
		cp := *stored
		return &cp, false, nil
	}

	r.nextID++
	stored := &models.User{
		ID:         r.nextID,
		Provider:   u.Provider,
		Subject:    u.Subject,
		Email:      u.Email,
		Name:       u.Name,
		FirstLogin: true,
		CreatedAt:  time.Now().UTC(),
	}
	r.byID[stored.ID] = stored
	r.byKey[key] = stored.ID

	cp := *stored
	return &cp, true, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *stored
	return &cp, nil
}

func (r *InMemoryRepository) CompleteOnboarding(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	stored.FirstLogin = false
	return nil
}
