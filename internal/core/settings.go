package core

// SavingTarget models the monthly saving amount, which is either a fixed
// user-set value or derived from the month's net balance. The two states
// are distinct: a fixed zero is an explicit override, not "auto".
type SavingTarget struct {
	Auto   bool
	Amount Money
}

// AutoSavingTarget derives the saving amount from net balance.
func AutoSavingTarget() SavingTarget {
	return SavingTarget{Auto: true}
}

// FixedSavingTarget uses a user-set amount, including an explicit zero.
func FixedSavingTarget(amount Money) SavingTarget {
	return SavingTarget{Amount: amount}
}

// Resolve returns the amount to display for a month with the given net
// balance.
func (s SavingTarget) Resolve(netBalance Money) Money {
	if s.Auto {
		return netBalance
	}
	return s.Amount
}

// UserSettings holds per-user preferences and savings figures.
// CurrentSavings missing from storage reads as zero, which is also its
// display default.
type UserSettings struct {
	Theme               string
	MonthlyIncomeTarget Money
	EmergencyFundGoal   Money
	SavingTarget        SavingTarget
	CurrentSavings      Money
}

// DefaultSettings are the settings of a fresh account.
func DefaultSettings() UserSettings {
	return UserSettings{
		Theme:        "light",
		SavingTarget: AutoSavingTarget(),
	}
}
