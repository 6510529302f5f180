// Package profitability derives a client's profit figures from its rate,
// hours and revenue.
package profitability

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Recalculate recomputes Profit, Profitability and RemainingHours of p from
// HourlyRate, ActualHours, Revenue and TargetHours. p is left untouched
// when the inputs are invalid.
func Recalculate(p *model.Profitability) error {
	if err := validate(p); err != nil {
		return err
	}

	rate := decimal.NewFromFloat(p.HourlyRate)
	hours := decimal.NewFromFloat(p.ActualHours)
	revenue := decimal.NewFromFloat(p.Revenue)
	target := decimal.NewFromFloat(p.TargetHours)

	profit := revenue.Sub(rate.Mul(hours))
	pct := decimal.Zero
	if revenue.IsPositive() {
		pct = profit.Div(revenue).Mul(hundred)
	}

	p.Profit = profit.InexactFloat64()
	p.Profitability = pct.InexactFloat64()
	p.RemainingHours = target.Sub(hours).InexactFloat64()
	return nil
}

// DefaultTargetHours derives target hours from a monthly budget so that
// target × rate ≈ budget, rounded to one decimal. ok is false when either
// input is not positive.
func DefaultTargetHours(monthlyBudget, hourlyRate float64) (hours float64, ok bool) {
	if !(monthlyBudget > 0) || !(hourlyRate > 0) || !finite(monthlyBudget) || !finite(hourlyRate) {
		return 0, false
	}
	return decimal.NewFromFloat(monthlyBudget).
		Div(decimal.NewFromFloat(hourlyRate)).
		Round(1).
		InexactFloat64(), true
}

// New builds the initial record for a client created with profitability
// settings: no hours, no revenue, zero profit.
func New(id, userID, clientID string, in model.ProfitabilityInput, now time.Time) (*model.Profitability, error) {
	if !(in.HourlyRate > 0) || !finite(in.HourlyRate) {
		return nil, apperr.Invalid("hourly rate must be positive")
	}
	if in.MonthlyBudget < 0 || !finite(in.MonthlyBudget) {
		return nil, apperr.Invalid("monthly budget must not be negative")
	}

	p := &model.Profitability{
		ID:            id,
		UserID:        userID,
		ClientID:      clientID,
		HourlyRate:    in.HourlyRate,
		MonthlyBudget: in.MonthlyBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	switch {
	case in.TargetHours != nil:
		p.TargetHours = *in.TargetHours
	default:
		if h, ok := DefaultTargetHours(in.MonthlyBudget, in.HourlyRate); ok {
			p.TargetHours = h
		}
	}

	if err := Recalculate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply copies the set fields of patch onto p and recalculates.
// p is left untouched on error.
func Apply(p *model.Profitability, patch model.ProfitabilityPatch) error {
	next := *p
	if patch.HourlyRate != nil {
		next.HourlyRate = *patch.HourlyRate
	}
	if patch.TargetHours != nil {
		next.TargetHours = *patch.TargetHours
	}
	if patch.MonthlyBudget != nil {
		next.MonthlyBudget = *patch.MonthlyBudget
		// A new budget re-derives the target unless one was given explicitly.
		if patch.TargetHours == nil {
			if h, ok := DefaultTargetHours(next.MonthlyBudget, next.HourlyRate); ok {
				next.TargetHours = h
			}
		}
	}
	if patch.ActualHours != nil {
		next.ActualHours = *patch.ActualHours
	}
	if patch.Revenue != nil {
		next.Revenue = *patch.Revenue
	}

	if err := Recalculate(&next); err != nil {
		return err
	}
	*p = next
	return nil
}

func validate(p *model.Profitability) error {
	switch {
	case !finite(p.HourlyRate) || !finite(p.ActualHours) || !finite(p.Revenue) ||
		!finite(p.TargetHours) || !finite(p.MonthlyBudget):
		return apperr.Invalid("profitability fields must be finite numbers")
	case !(p.HourlyRate > 0):
		return apperr.Invalid("hourly rate must be positive")
	case p.ActualHours < 0:
		return apperr.Invalid("actual hours must not be negative")
	case p.TargetHours < 0:
		return apperr.Invalid("target hours must not be negative")
	case p.Revenue < 0:
		return apperr.Invalid("revenue must not be negative")
	case p.MonthlyBudget < 0:
		return apperr.Invalid("monthly budget must not be negative")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
