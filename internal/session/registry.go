// Package session keeps the per-conversation state behind the tool layer.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/shoping-voice/internal/cart/app"
	tutordomain "github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
)

// Session is the state of one conversation. Callers hold Lock while reading
// or changing it; Cart and Tutor are not safe for concurrent use on their own.
type Session struct {
	ID        string
	Cart      *cartapp.Service
	Tutor     tutordomain.State
	CreatedAt time.Time

	// LastListed holds the product ids most recently read out to the user,
	// in order, so "the second one" can be resolved against them.
	LastListed []string

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// CartFactory builds the cart for a new session.
type CartFactory func(sessionID string) *cartapp.Service

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	newCart CartFactory
	ttl     time.Duration
	now     func() time.Time
	log     *slog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry returns an empty registry. When ttl > 0 a sweeper evicts
// sessions idle for longer than ttl until Close is called.
func NewRegistry(newCart CartFactory, ttl time.Duration, log *slog.Logger) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		newCart:  newCart,
		ttl:      ttl,
		now:      time.Now,
		log:      logger.OrDefault(log),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if ttl > 0 {
		go r.sweepLoop(sweepInterval(ttl))
	} else {
		close(r.done)
	}
	return r
}

func sweepInterval(ttl time.Duration) time.Duration {
	iv := ttl / 2
	if iv < time.Second {
		iv = time.Second
	}
	return iv
}

// GetOrCreate returns the session for id, creating it on first use. A new
// session's cart is restored from its snapshot when one exists.
func (r *Registry) GetOrCreate(ctx context.Context, id string) *Session {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		r.mu.Unlock()
		return s
	}

	now := r.now()
	s := &Session{
		ID:        id,
		Cart:      r.newCart(id),
		CreatedAt: now,
		lastSeen:  now,
	}
	// nobody may use the cart before it is restored
	s.Lock()
	defer s.Unlock()
	r.sessions[id] = s
	r.mu.Unlock()

	restored, err := s.Cart.Restore(ctx)
	if err != nil {
		r.log.Warn("cart restore failed", slog.String("session_id", id), slog.Any("err", err))
	}

	r.log.Info("session created", slog.String("session_id", id), slog.Bool("cart_restored", restored))
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed. Sessions that
// are busy with a tool call are left for the next sweep.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, s := range r.sessions {
		if !s.lastSeen.Before(cutoff) {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		s.mu.Unlock()
		evicted++
	}

	if evicted > 0 {
		r.log.Info("idle sessions evicted", slog.Int("count", evicted), slog.Int("remaining", len(r.sessions)))
	}
	return evicted
}

func (r *Registry) sweepLoop(interval time.Duration) {
	defer close(r.done)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.stop) })
	<-r.done
}
