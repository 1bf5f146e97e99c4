package session

import (
	"context"
	"time"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/rs/zerolog/log"
)

// Reaper periodically removes upload sessions that were opened but never
// finalized, along with their temp chunk storage.
type Reaper struct {
	store    Store
	backend  storage.Backend
	ttl      time.Duration
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewReaper(store Store, backend storage.Backend, config Config) *Reaper {
	ttlHours := config.TTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}

	intervalMins := config.ReapIntervalMins
	if intervalMins <= 0 {
		intervalMins = 60
	}

	return &Reaper{
		store:    store,
		backend:  backend,
		ttl:      time.Duration(ttlHours) * time.Hour,
		interval: time.Duration(intervalMins) * time.Minute,
		done:     make(chan bool),
	}
}

func (r *Reaper) Start() {
	r.ticker = time.NewTicker(r.interval)

	log.Info().
		Dur("ttl", r.ttl).
		Dur("interval", r.interval).
		Msg("Session reaper started")

	go r.loop()
}

func (r *Reaper) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.RunNow()
		case <-r.done:
			r.ticker.Stop()
			return
		}
	}
}

// RunNow sweeps expired sessions immediately.
func (r *Reaper) RunNow() {
	ctx := context.Background()

	expired, err := r.store.Expired(ctx, time.Now().Add(-r.ttl))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired sessions")
		return
	}

	for _, sess := range expired {
		if err := r.backend.DeletePrefix(ctx, sess.ChunkPrefix); err != nil {
			log.Warn().
				Err(err).
				Str("sessionId", sess.ID).
				Str("chunkPrefix", sess.ChunkPrefix).
				Msg("Failed to delete temp chunks for expired session")
		}

		if _, err := r.store.Remove(ctx, sess.ID); err != nil {
			log.Warn().Err(err).Str("sessionId", sess.ID).Msg("Failed to remove expired session")
			continue
		}

		log.Info().
			Str("sessionId", sess.ID).
			Str("ownerId", sess.OwnerID).
			Msg("Expired upload session reaped")
	}
}

func (r *Reaper) Stop() {
	if r.ticker != nil {
		r.done <- true
	}
}
