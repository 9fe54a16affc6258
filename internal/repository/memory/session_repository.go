package memory

import (
	"sync"
	"time"

	"physio-notes-be/pkg/flow"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const SessionTTL = 1 * time.Hour

// SessionRepository keeps each user's recording flow in memory. Entries
// expire after an hour without access.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(SessionTTL, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the user's flow, creating it with newFlow on first use.
// The expiry is refreshed on every access.
func (r *SessionRepository) GetOrCreate(userID uuid.UUID, newFlow func() *flow.Flow) (*flow.Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userID.String()
	if x, found := r.cache.Get(key); found {
		f := x.(*flow.Flow)
		r.cache.Set(key, f, cache.DefaultExpiration)
		return f, false
	}
	f := newFlow()
	r.cache.Set(key, f, cache.DefaultExpiration)
	return f, true
}

func (r *SessionRepository) Get(userID uuid.UUID) (*flow.Flow, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(*flow.Flow), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}

// OnEvicted registers fn for sessions dropped by expiry or Delete.
func (r *SessionRepository) OnEvicted(fn func(userID string, f *flow.Flow)) {
	r.cache.OnEvicted(func(key string, value interface{}) {
		if f, ok := value.(*flow.Flow); ok {
			fn(key, f)
		}
	})
}
