package maintenance

import (
	"context"
	"log"
	"time"
)

type RefreshTokenCleaner interface {
	DeleteExpired(ctx context.Context, retention time.Duration) (int64, error)
}

type LoginAttemptCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes expired refresh tokens and stale login
// attempt rows so the auth tables stay bounded.
type Sweeper struct {
	tokens    RefreshTokenCleaner
	attempts  LoginAttemptCleaner
	retention time.Duration
}

func NewSweeper(tokens RefreshTokenCleaner, attempts LoginAttemptCleaner, retention time.Duration) *Sweeper {
	return &Sweeper{
		tokens:    tokens,
		attempts:  attempts,
		retention: retention,
	}
}

// RunOnce executes a single sweep and logs what it removed.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	startTime := time.Now()

	tokensDeleted, err := s.tokens.DeleteExpired(ctx, s.retention)
	if err != nil {
		log.Printf("Error sweeping refresh tokens: %v", err)
		return err
	}

	attemptsDeleted, err := s.attempts.DeleteOlderThan(ctx, time.Now().Add(-s.retention))
	if err != nil {
		log.Printf("Error sweeping login attempts: %v", err)
		return err
	}

	log.Printf("Sweep completed: removed %d refresh tokens, %d login attempts in %v",
		tokensDeleted, attemptsDeleted, time.Since(startTime))
	return nil
}

// Start runs the sweep on the given interval until the returned stop
// channel is closed or the context is cancelled.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					log.Printf("Scheduled sweep error: %v", err)
				}
			case <-stopCh:
				log.Println("Scheduled sweep stopped")
				return
			case <-ctx.Done():
				log.Println("Scheduled sweep stopped (context done)")
				return
			}
		}
	}()

	log.Printf("Scheduled sweep started with interval %v", interval)
	return stopCh
}
