// Package engine contains the simulation loop and the per-tick finance
// driver. The engine does not expose FinanceState for direct writes: every
// mutation funnels through the lifecycle operations, serialized on a single
// goroutine.
package engine

import (
	"context"
	"time"

	domain "tycoon-backend/internal/domain/finance"
	"tycoon-backend/internal/domain/game"
	usecase "tycoon-backend/internal/usecase/finance"

	"go.uber.org/zap"
)

// incomeIntervalMS is how often passive property income is credited.
const incomeIntervalMS = 1000.0

// Processor advances finance bookkeeping once per simulation tick: EMI
// aging and automatic deduction, progression-gated unlocks, passive income.
// Every operation is O(number of banks/loan types); nothing blocks.
type Processor struct {
	lifecycle *usecase.Lifecycle
	state     *domain.FinanceState
	game      *game.State
	rules     []domain.UnlockRule
	log       *zap.Logger
	now       func() time.Time

	incomeTimer float64
}

func NewProcessor(lc *usecase.Lifecycle, st *domain.FinanceState, gs *game.State, rules []domain.UnlockRule, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		lifecycle: lc,
		state:     st,
		game:      gs,
		rules:     rules,
		log:       log,
		now:       time.Now,
	}
}

// Tick advances the finance subsystem by dt simulation milliseconds.
func (p *Processor) Tick(ctx context.Context, dt float64, sink domain.Sink) {
	p.processEMI(ctx, dt, sink)
	p.processUnlocks(sink)
	p.processIncome(dt, sink)
}

// processEMI ages the due-timer and triggers the automatic deduction once a
// full repayment period has elapsed.
func (p *Processor) processEMI(ctx context.Context, dt float64, sink domain.Sink) {
	if p.state.ActiveLoan != nil && p.state.EMIDueTimer >= p.state.EMIInterval {
		p.state.EMIDueTimer = 0

		res, err := p.lifecycle.ApplyScheduledPayment(ctx)
		if err != nil {
			p.log.Error("scheduled payment failed", zap.Error(err))
			return
		}
		p.emitPayment(res, sink)
		return
	}
	p.state.EMIDueTimer += dt
}

// emitPayment translates a payment result into the event variants the UI
// consumes. Shared by the automatic tick path and the manual pay-emi intent.
func (p *Processor) emitPayment(res *usecase.PaymentResult, sink domain.Sink) {
	sink.Emit(domain.EMIPaymentEvent{
		Success:         res.Success,
		Amount:          res.Amount,
		PrincipalPaid:   res.PrincipalPaid,
		InterestPaid:    res.InterestPaid,
		RemainingLoan:   res.RemainingAmount,
		RemainingMonths: res.RemainingMonths,
		Balance:         res.Balance,
		Shortfall:       res.Shortfall,
	})

	if res.Completed {
		sink.Emit(domain.LoanCompletedEvent{
			Loan:         res.Loan,
			Relationship: res.Relationship,
			Message:      "Loan fully paid!",
		})
	}
	if !res.Success && res.MultipleMissed {
		sink.Emit(domain.LoanPenaltyEvent{
			Message:       "Multiple EMIs missed! Rating decreased.",
			PenaltyAmount: res.PenaltyAmount,
			PenaltyCount:  res.PenaltyCount,
		})
	}
}

// processUnlocks applies the declarative unlock table whenever level or
// property count moved since the last check.
func (p *Processor) processUnlocks(sink domain.Sink) {
	if level := p.game.Level; level != p.state.LastCheckedLevel {
		for _, r := range p.rules {
			if r.Level == 0 || r.Level > level {
				continue
			}
			p.applyRule(r, sink)
		}
		p.state.LastCheckedLevel = level
	}

	if props := p.game.PropertyCount; props != p.state.LastPropertyCount {
		if props > 0 {
			for _, r := range p.rules {
				if r.MinProperties == 0 || props < r.MinProperties {
					continue
				}
				p.applyRule(r, sink)
			}
		}
		p.state.LastPropertyCount = props
	}
}

// applyRule performs the unlock action of one rule. Idempotent: already
// unlocked ids emit nothing.
func (p *Processor) applyRule(r domain.UnlockRule, sink domain.Sink) {
	if r.BankID != "" && !p.state.UnlockedBanks[r.BankID] {
		p.state.UnlockedBanks[r.BankID] = true
		p.state.EnsureRelationship(r.BankID, p.now())
		p.log.Info("bank unlocked", zap.String("bank_id", r.BankID))
		sink.Emit(domain.BankUnlockedEvent{BankID: r.BankID, Message: r.Message})
	}
	if r.LoanTypeID != "" && !p.state.UnlockedLoanTypes[r.LoanTypeID] {
		p.state.UnlockedLoanTypes[r.LoanTypeID] = true
		p.log.Info("loan type unlocked", zap.String("loan_type_id", r.LoanTypeID))
		sink.Emit(domain.LoanTypeUnlockedEvent{LoanTypeID: r.LoanTypeID, Message: r.Message})
	}
}

// processIncome credits passive property income once per income interval.
func (p *Processor) processIncome(dt float64, sink domain.Sink) {
	p.incomeTimer += dt
	if p.incomeTimer < incomeIntervalMS {
		return
	}
	p.incomeTimer = 0

	income := p.game.PassiveIncome()
	if income <= 0 {
		return
	}
	p.game.Credit(income)
	sink.Emit(domain.BalanceUpdateEvent{Balance: p.game.Balance})
}

// OpenFinance emits the finance screen snapshot in response to the
// open-finance intent.
func (p *Processor) OpenFinance(sink domain.Sink) {
	sink.Emit(p.lifecycle.Snapshot())
}
