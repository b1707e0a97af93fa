package finance

import "math"

const (
	// DefaultPreClosurePenaltyPct is the surcharge (in percent) applied on top
	// of the outstanding principal when a loan is paid off early.
	DefaultPreClosurePenaltyPct = 2.5

	// LatePaymentPenaltyPct is the surcharge (in percent of one EMI) added to
	// the outstanding principal when a scheduled payment is missed.
	LatePaymentPenaltyPct = 2.0

	// MinInterestRate is the floor for any offered rate after adjustments.
	MinInterestRate = 3.0

	// LevelRateDiscount is the per-level reduction of the base rate.
	LevelRateDiscount = 0.2
)

// MonthlyRate converts an annual percentage rate to a monthly decimal rate.
func MonthlyRate(annualRatePct float64) float64 {
	return annualRatePct / 12.0 / 100.0
}

// CalculateEMI computes the fixed monthly installment amortizing a loan:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate and n the term in months. Returns 0 for
// non-positive principal, rate or term, or when the formula degenerates;
// callers must treat a zero EMI as a hard rejection of the loan.
func CalculateEMI(principal, annualRatePct float64, months int) float64 {
	if principal <= 0 || annualRatePct <= 0 || months <= 0 {
		return 0
	}
	r := MonthlyRate(annualRatePct)
	factor := math.Pow(1+r, float64(months))
	emi := principal * r * factor / (factor - 1)
	if math.IsNaN(emi) || math.IsInf(emi, 0) || emi <= 0 {
		return 0
	}
	return math.Round(emi)
}

// CalculateTotalInterest is the projected interest over the full term.
func CalculateTotalInterest(principal, emi float64, months int) float64 {
	return emi*float64(months) - principal
}

// CalculateTotalAmount is the total outlay over the full term.
func CalculateTotalAmount(emi float64, months int) float64 {
	return emi * float64(months)
}

// ScheduleEntry is one row of an amortization schedule.
type ScheduleEntry struct {
	Month            int     `json:"month"`
	EMI              float64 `json:"emi"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// GenerateAmortizationSchedule produces the month-by-month principal/interest
// split for a loan, one entry per month. The remaining balance is floored at
// zero to absorb rounding drift in the final periods. Returns nil when the
// inputs do not yield a valid EMI. Stateless: recomputed on every call.
func GenerateAmortizationSchedule(principal, annualRatePct float64, months int) []ScheduleEntry {
	emi := CalculateEMI(principal, annualRatePct, months)
	if emi == 0 {
		return nil
	}

	r := MonthlyRate(annualRatePct)
	balance := principal
	schedule := make([]ScheduleEntry, 0, months)

	for month := 1; month <= months; month++ {
		interest := balance * r
		principalPart := emi - interest
		balance -= principalPart

		remaining := balance
		if remaining < 0 {
			remaining = 0
		}
		schedule = append(schedule, ScheduleEntry{
			Month:            month,
			EMI:              emi,
			PrincipalPaid:    principalPart,
			InterestPaid:     interest,
			RemainingBalance: remaining,
		})
	}
	return schedule
}

// CreditScoreAdjustment maps a credit score (300-850) to a rate delta in
// percentage points. Poor scores pay a premium, excellent scores a discount.
func CreditScoreAdjustment(score int) float64 {
	switch {
	case score < 580:
		return 2.0
	case score < 670:
		return 1.0
	case score < 740:
		return 0
	case score < 800:
		return -0.5
	default:
		return -1.0
	}
}

// CalculateAdjustedInterestRate derives the rate actually offered to a player
// from a loan type's base rate: higher level and a better bank relationship
// push it down, a weak credit score pushes it up. Floored at MinInterestRate.
func CalculateAdjustedInterestRate(baseRate float64, playerLevel, creditScore, relationshipScore int, relationshipDiscount float64) float64 {
	rate := baseRate
	rate -= float64(playerLevel) * LevelRateDiscount
	rate -= float64(relationshipScore) * relationshipDiscount
	rate += CreditScoreAdjustment(creditScore)
	if rate < MinInterestRate {
		rate = MinInterestRate
	}
	return rate
}

// CalculatePreClosureAmount is the outstanding principal plus the early
// payoff penalty.
func CalculatePreClosureAmount(remainingPrincipal, penaltyPct float64) float64 {
	return remainingPrincipal * (1 + penaltyPct/100.0)
}

// DebtToIncomeRatio returns monthly debt service over monthly income, or 0
// when income is non-positive.
func DebtToIncomeRatio(monthlyDebt, monthlyIncome float64) float64 {
	if monthlyIncome <= 0 {
		return 0
	}
	return monthlyDebt / monthlyIncome
}

// MaxAffordableLoan inverts the EMI formula: the largest principal whose
// monthly installment fits within the given payment budget.
func MaxAffordableLoan(monthlyPayment, annualRatePct float64, months int) float64 {
	if monthlyPayment <= 0 || annualRatePct <= 0 || months <= 0 {
		return 0
	}
	r := MonthlyRate(annualRatePct)
	factor := math.Pow(1+r, float64(months))
	return monthlyPayment * (factor - 1) / (r * factor)
}

// LoanToValueRatio returns the loan amount relative to the collateral value,
// or 0 when the collateral value is non-positive.
func LoanToValueRatio(loanAmount, collateralValue float64) float64 {
	if collateralValue <= 0 {
		return 0
	}
	return loanAmount / collateralValue
}
