package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/usecase"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, item := range users {
		items[item.ID] = cloneUser(item)
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}
	return cloneUser(item), true, nil
}

func (r *UserRepository) AppendInteraction(_ context.Context, userID string, interaction user.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userID]
	if !ok {
		return fmt.Errorf("%w: user=%s", usecase.ErrNotFound, userID)
	}
	item.History = append(item.History, interaction)
	r.items[userID] = item
	return nil
}

func cloneUser(item user.User) user.User {
	item.Preferences.FavoriteTeams = append([]string(nil), item.Preferences.FavoriteTeams...)
	item.Preferences.FavoriteLeagues = append([]string(nil), item.Preferences.FavoriteLeagues...)
	item.Preferences.FavoriteVenues = append([]string(nil), item.Preferences.FavoriteVenues...)
	item.History = append([]user.Interaction(nil), item.History...)
	return item
}
