package engine

import (
	"context"

	domain "tycoon-backend/internal/domain/finance"
	"tycoon-backend/internal/domain/game"
	usecase "tycoon-backend/internal/usecase/finance"

	"go.uber.org/zap"
)

// Engine owns the shared game state and serializes every finance mutation —
// ticks and player intents alike — onto one goroutine. That single-writer
// discipline is what upholds the one-active-loan and non-negative-balance
// invariants without locks.
type Engine struct {
	state     *domain.FinanceState
	game      *game.State
	lifecycle *usecase.Lifecycle
	processor *Processor
	sink      domain.Sink
	cmds      chan func()
	log       *zap.Logger
}

func New(st *domain.FinanceState, gs *game.State, lc *usecase.Lifecycle, pr *Processor, sink domain.Sink, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = domain.SinkFunc(func(domain.Event) {})
	}
	return &Engine{
		state:     st,
		game:      gs,
		lifecycle: lc,
		processor: pr,
		sink:      sink,
		cmds:      make(chan func(), 64),
		log:       log,
	}
}

// Run processes the command queue until the context is cancelled. Call in a
// goroutine before the ticker or any adapter starts dispatching.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("engine started")
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return
		case fn := <-e.cmds:
			fn()
		}
	}
}

// do runs fn on the engine goroutine and blocks until it has executed.
func (e *Engine) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case e.cmds <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick enqueues one simulation step of dt milliseconds. Called by the Ticker;
// blocks if the queue is full rather than dropping elapsed time.
func (e *Engine) Tick(dt float64) {
	e.cmds <- func() {
		e.processor.Tick(context.Background(), dt, e.sink)
	}
}

// TakeLoan runs the take-loan intent. The returned loan is a copy: the stored
// one keeps mutating on the engine goroutine with every tick.
func (e *Engine) TakeLoan(ctx context.Context, in usecase.OriginateInput) (*domain.Loan, error) {
	var (
		loan domain.Loan
		err  error
	)
	if derr := e.do(ctx, func() {
		l, oerr := e.lifecycle.Originate(ctx, in)
		if oerr != nil {
			err = oerr
			return
		}
		loan = *l
	}); derr != nil {
		return nil, derr
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// PayEMI runs the manual pay-emi intent through the same scheduled-payment
// path as the automatic tick debit, emitting the same events. A successful
// manual payment resets the due-timer so the period is not charged twice.
func (e *Engine) PayEMI(ctx context.Context) (*usecase.PaymentResult, error) {
	var (
		res *usecase.PaymentResult
		err error
	)
	if derr := e.do(ctx, func() {
		res, err = e.lifecycle.ApplyScheduledPayment(ctx)
		if err != nil {
			return
		}
		if res.Success {
			e.state.EMIDueTimer = 0
		}
		e.processor.emitPayment(res, e.sink)
	}); derr != nil {
		return nil, derr
	}
	return res, err
}

// PreCloseLoan runs the pre-close intent.
func (e *Engine) PreCloseLoan(ctx context.Context) (*usecase.PreCloseResult, error) {
	var (
		res *usecase.PreCloseResult
		err error
	)
	if derr := e.do(ctx, func() {
		res, err = e.lifecycle.PreClose(ctx)
		if err != nil {
			return
		}
		e.sink.Emit(domain.LoanCompletedEvent{
			Loan:         res.Loan,
			Relationship: res.Relationship,
			Message:      "Loan pre-closed",
		})
	}); derr != nil {
		return nil, derr
	}
	return res, err
}

// FinanceSnapshot serves the open-finance intent: the snapshot is returned
// to the caller and broadcast to the event feed.
func (e *Engine) FinanceSnapshot(ctx context.Context) (domain.OpenFinanceEvent, error) {
	var snap domain.OpenFinanceEvent
	if derr := e.do(ctx, func() {
		snap = e.lifecycle.Snapshot()
		e.sink.Emit(snap)
	}); derr != nil {
		return domain.OpenFinanceEvent{}, derr
	}
	return snap, nil
}

// LoanHistory returns the in-memory record of terminated loans.
func (e *Engine) LoanHistory(ctx context.Context) ([]domain.Loan, error) {
	var out []domain.Loan
	if derr := e.do(ctx, func() {
		hist := e.lifecycle.History()
		out = make([]domain.Loan, len(hist))
		copy(out, hist)
	}); derr != nil {
		return nil, derr
	}
	return out, nil
}

// GameSnapshot returns a copy of the shared game state.
func (e *Engine) GameSnapshot(ctx context.Context) (game.State, error) {
	var out game.State
	if derr := e.do(ctx, func() { out = *e.game }); derr != nil {
		return game.State{}, derr
	}
	return out, nil
}

// BuyProperty debits the price and adds one owned property. The next tick
// picks up the count change and evaluates property-gated unlocks.
func (e *Engine) BuyProperty(ctx context.Context, price float64) (game.State, error) {
	var (
		out game.State
		err error
	)
	if derr := e.do(ctx, func() {
		if price <= 0 {
			err = domain.ErrInvalidInput
			return
		}
		if !e.game.Debit(price) {
			err = domain.ErrInsufficientBalance
			return
		}
		e.game.PropertyCount++
		out = *e.game
	}); derr != nil {
		return game.State{}, derr
	}
	return out, err
}

// SetLevel moves the player to the given level. Progression normally comes
// from the property/market systems; this is their stand-in.
func (e *Engine) SetLevel(ctx context.Context, level int) (game.State, error) {
	var (
		out game.State
		err error
	)
	if derr := e.do(ctx, func() {
		if level < 1 {
			err = domain.ErrInvalidInput
			return
		}
		e.game.Level = level
		out = *e.game
	}); derr != nil {
		return game.State{}, derr
	}
	return out, err
}
