// Package game holds the shared progression state the finance subsystem
// reads every tick and whose balance it credits and debits.
package game

// IncomePerPropertyPerLevel is the passive income one property generates per
// income interval, multiplied by player level.
const IncomePerPropertyPerLevel = 50.0

// State is the player's shared game state. Owned by the engine; all writes
// happen on the engine goroutine.
type State struct {
	Balance       float64 `json:"balance"`
	Level         int     `json:"level"`
	PropertyCount int     `json:"property_count"`
}

// CanAfford reports whether the balance covers amount.
func (s *State) CanAfford(amount float64) bool {
	return s.Balance >= amount
}

// Debit subtracts amount from the balance only when it is fully covered.
// Returns false (and mutates nothing) otherwise, so a debit can never drive
// the balance negative.
func (s *State) Debit(amount float64) bool {
	if amount < 0 || !s.CanAfford(amount) {
		return false
	}
	s.Balance -= amount
	return true
}

// Credit adds amount to the balance. Negative amounts are ignored.
func (s *State) Credit(amount float64) {
	if amount > 0 {
		s.Balance += amount
	}
}

// PassiveIncome is the income generated per income interval from owned
// properties at the current level.
func (s *State) PassiveIncome() float64 {
	return IncomePerPropertyPerLevel * float64(s.Level) * float64(s.PropertyCount)
}
