package memory

import (
	"time"

	"kurum-asistan-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

// GetOrCreate returns the conversation state for the user, creating a fresh
// one when none exists or the previous one expired.
func (r *StateRepository) GetOrCreate(userId string) *store.ConversationState {
	if x, found := r.cache.Get(userId); found {
		return x.(*store.ConversationState)
	}
	state := store.NewConversationState(userId)
	r.cache.Set(userId, state, cache.DefaultExpiration)
	return state
}

// Save refreshes the TTL so active conversations never expire mid-flow.
func (r *StateRepository) Save(state *store.ConversationState) {
	r.cache.Set(state.UserID, state, cache.DefaultExpiration)
}

func (r *StateRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
