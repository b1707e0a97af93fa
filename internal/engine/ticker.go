package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultTickRate is how often the simulation advances in real time.
const DefaultTickRate = 250 * time.Millisecond

// Ticker is the game clock: it measures real elapsed time and feeds it to
// the engine as tick deltas. It knows nothing about loans or balances.
type Ticker struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger
}

func NewTicker(e *Engine, interval time.Duration, log *zap.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultTickRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ticker{engine: e, interval: interval, log: log}
}

// Start runs the tick loop until the context is cancelled. Call in a
// goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.log.Info("ticker started", zap.Duration("interval", t.interval))

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.log.Info("ticker stopped")
			return
		case now := <-tk.C:
			dt := float64(now.Sub(last).Milliseconds())
			last = now
			t.engine.Tick(dt)
		}
	}
}
