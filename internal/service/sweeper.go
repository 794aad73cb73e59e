package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/repo"
)

// Sweeper is the single recurring background task: it reaps expired
// payment callbacks and re-applies the buffer trim policy.
type Sweeper struct {
	callbacks repo.PendingCallbackStore
	store     repo.ConversationStore

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper. A non-positive interval defaults to 30
// minutes.
func NewSweeper(callbacks repo.PendingCallbackStore, store repo.ConversationStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Sweeper{
		callbacks: callbacks,
		store:     store,
		interval:  interval,
	}
}

// Start starts the sweep loop
func (s *Sweeper) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	fmt.Printf("[Sweeper] Started with interval %v\n", s.interval)
}

// Stop stops the sweep loop and waits for it to exit
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	fmt.Println("[Sweeper] Stopped")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	now := time.Now()

	removed, err := s.callbacks.SweepExpired(s.ctx, now)
	if err != nil {
		fmt.Printf("[Sweeper] Callback sweep failed: %v\n", err)
	} else if removed > 0 {
		fmt.Printf("[Sweeper] Removed %d expired payment callbacks\n", removed)
	}

	if s.store != nil {
		if err := s.store.Trim(s.ctx, now); err != nil {
			fmt.Printf("[Sweeper] Buffer trim failed: %v\n", err)
		}
	}
}
