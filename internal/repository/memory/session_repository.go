package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bytebender77/honeypot/pkg/store"
)

// ISessionRepository is the capability the engine needs: get/put/delete of
// per-session state. Backed by process memory only; restart loses sessions,
// which is acceptable for a honeypot (spent sessions have no afterlife).
type ISessionRepository interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}

type SessionRepository struct {
	cache *cache.Cache
}

var _ ISessionRepository = &SessionRepository{}

func NewSessionRepository() *SessionRepository {
	// Idle scam conversations expire after an hour; the sweeper reclaims
	// them every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
