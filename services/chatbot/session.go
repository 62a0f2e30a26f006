package chatbot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	chatRepo "concierge/database/repository/chat"
	"concierge/models"
	"concierge/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionCachePrefix = "chat:sess:"

// SessionManager owns the session table: one live ConversationContext and
// one bounded message history per session id. Access to a session is
// serialized through its entry mutex (single writer per session); the table
// mutex is held only for create, lookup and expiry.
type SessionManager struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry

	historyLimit int
	idleTimeout  time.Duration
	cache        *redis.Client       // optional snapshot write-through
	repo         chatRepo.Repository // optional durable store
}

type sessionEntry struct {
	mu      sync.Mutex
	session *models.ChatSession
}

// LockedSession is a checked-out session. The caller holds the per-session
// lock until Release and must not retain the pointer afterwards.
type LockedSession struct {
	entry *sessionEntry
	mgr   *SessionManager
}

// NewSessionManager builds a manager. cache and repo may be nil; the table
// then lives purely in memory.
func NewSessionManager(historyLimit int, idleTimeout time.Duration, cache *redis.Client, repo chatRepo.Repository) *SessionManager {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &SessionManager{
		entries:      make(map[string]*sessionEntry),
		historyLimit: historyLimit,
		idleTimeout:  idleTimeout,
		cache:        cache,
		repo:         repo,
	}
}

func (m *SessionManager) entryFor(sessionID string) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sessionID]
	if !ok {
		e = &sessionEntry{}
		m.entries[sessionID] = e
	}
	return e
}

// Checkout locks the session for one in-flight turn, creating it on first
// contact. A session already marked abandoned is rejected with
// ErrSessionExpired; the caller starts over with a new id.
func (m *SessionManager) Checkout(ctx context.Context, sessionID string, now time.Time) (*LockedSession, error) {
	e := m.entryFor(sessionID)
	e.mu.Lock()

	if e.session == nil {
		e.session = m.loadOrCreate(ctx, sessionID, now)
	}
	if e.session.Status == models.SessionAbandoned {
		e.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return &LockedSession{entry: e, mgr: m}, nil
}

// loadOrCreate recovers a session from the snapshot cache, then the durable
// store, before minting a fresh one.
func (m *SessionManager) loadOrCreate(ctx context.Context, sessionID string, now time.Time) *models.ChatSession {
	logger := utils.GetLogger()

	if m.cache != nil {
		data, err := m.cache.Get(ctx, sessionCachePrefix+sessionID).Result()
		if err == nil {
			var s models.ChatSession
			if err := json.Unmarshal([]byte(data), &s); err == nil {
				return &s
			}
			logger.Warn("discarding corrupt session snapshot", zap.String("sessionID", sessionID))
		} else if err != redis.Nil {
			logger.Warn("session cache read failed", zap.Error(err))
		}
	}

	if m.repo != nil {
		if s, err := m.repo.LoadSession(ctx, sessionID); err != nil {
			logger.Warn("session load failed", zap.String("sessionID", sessionID), zap.Error(err))
		} else if s != nil {
			return s
		}
	}

	return &models.ChatSession{
		SessionID:    sessionID,
		Status:       models.SessionActive,
		CreatedAt:    now,
		LastActiveAt: now,
		Context:      models.NewConversationContext(sessionID, now),
	}
}

// Session exposes the checked-out session. Valid only until Release.
func (ls *LockedSession) Session() *models.ChatSession {
	return ls.entry.session
}

// AppendMessage records one immutable message, evicting the oldest entries
// beyond the history cap. The context is never evicted, only messages.
func (ls *LockedSession) AppendMessage(msg models.ChatMessage) {
	s := ls.entry.session
	s.History = append(s.History, msg)
	if over := len(s.History) - ls.mgr.historyLimit; over > 0 {
		s.History = append([]models.ChatMessage(nil), s.History[over:]...)
	}
	s.LastActiveAt = msg.Timestamp
}

// Save write-throughs the session snapshot to the cache and the durable
// store. Persistence failures are logged, never fatal to the turn.
func (ls *LockedSession) Save(ctx context.Context) {
	logger := utils.GetLogger()
	s := ls.entry.session

	if ls.mgr.cache != nil {
		if data, err := json.Marshal(s); err == nil {
			if err := ls.mgr.cache.Set(ctx, sessionCachePrefix+s.SessionID, data, ls.mgr.idleTimeout).Err(); err != nil {
				logger.Warn("session cache write failed", zap.String("sessionID", s.SessionID), zap.Error(err))
			}
		}
	}
	if ls.mgr.repo != nil {
		if err := ls.mgr.repo.SaveSession(ctx, *s); err != nil {
			logger.Warn("session persist failed", zap.String("sessionID", s.SessionID), zap.Error(err))
		}
	}
}

// LogMessage appends to the durable message log. Best effort: a store
// failure costs the audit entry, not the turn.
func (m *SessionManager) LogMessage(ctx context.Context, msg models.ChatMessage) {
	if m.repo == nil {
		return
	}
	if err := m.repo.AppendMessage(ctx, msg); err != nil {
		utils.GetLogger().Warn("message log append failed",
			zap.String("sessionID", msg.SessionID), zap.Error(err))
	}
}

// Release unlocks the session.
func (ls *LockedSession) Release() {
	ls.entry.mu.Unlock()
}

// Snapshot returns a copy of the session, falling back to the durable store
// for sessions no longer held in memory. Abandoned sessions remain
// queryable here until deleted.
func (m *SessionManager) Snapshot(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if ok {
		e.mu.Lock()
		if e.session != nil {
			cp := *e.session
			cp.History = append([]models.ChatMessage(nil), e.session.History...)
			e.mu.Unlock()
			return &cp, nil
		}
		e.mu.Unlock()
	}

	if m.repo != nil {
		s, err := m.repo.LoadSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, ErrSessionExpired
}

// Reset restores the session's context to the initial state, keeping the
// recorded history. This is the only way state moves backwards.
func (m *SessionManager) Reset(ctx context.Context, sessionID string, now time.Time) error {
	e := m.entryFor(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		e.session = m.loadOrCreate(ctx, sessionID, now)
	}
	e.session.Status = models.SessionActive
	e.session.Context = models.NewConversationContext(sessionID, now)
	e.session.LastActiveAt = now

	ls := &LockedSession{entry: e, mgr: m}
	ls.Save(ctx)
	return nil
}

// ActiveSessions lists sessions that have not completed, cancelled or
// expired, newest activity first not guaranteed.
func (m *SessionManager) ActiveSessions() []models.ChatSession {
	m.mu.RLock()
	entries := make([]*sessionEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	var out []models.ChatSession
	for _, e := range entries {
		e.mu.Lock()
		if e.session != nil && e.session.Status == models.SessionActive {
			out = append(out, *e.session)
		}
		e.mu.Unlock()
	}
	return out
}

// ExpireIdle marks sessions idle past the timeout as abandoned, persists
// them, and evicts them from the in-memory table. Returns the number
// expired. Abandoned sessions stay queryable through Snapshot's durable
// fallback.
func (m *SessionManager) ExpireIdle(ctx context.Context, now time.Time) int {
	m.mu.Lock()
	stale := make(map[string]*sessionEntry)
	for id, e := range m.entries {
		stale[id] = e
	}
	m.mu.Unlock()

	expired := 0
	for id, e := range stale {
		e.mu.Lock()
		s := e.session
		if s == nil || s.Status != models.SessionActive || now.Sub(s.LastActiveAt) < m.idleTimeout {
			e.mu.Unlock()
			continue
		}
		s.Status = models.SessionAbandoned
		s.Context.State = models.StateAbandoned
		s.Context.LastUpdated = now
		ls := &LockedSession{entry: e, mgr: m}
		ls.Save(ctx)
		e.mu.Unlock()

		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		expired++
	}
	return expired
}

// Delete removes a session everywhere: memory, cache and durable store.
func (m *SessionManager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()

	if m.cache != nil {
		if err := m.cache.Del(ctx, sessionCachePrefix+sessionID).Err(); err != nil {
			utils.GetLogger().Warn("session cache delete failed", zap.Error(err))
		}
	}
	if m.repo != nil {
		return m.repo.DeleteSession(ctx, sessionID)
	}
	return nil
}
