package model

import "time"

// Profitability is the derived financial summary for one (user, client) pair.
type Profitability struct {
	ID       string `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	ClientID string `json:"client_id" db:"client_id"`

	HourlyRate    float64 `json:"hourly_rate" db:"hourly_rate"`
	TargetHours   float64 `json:"target_hours" db:"target_hours"`
	MonthlyBudget float64 `json:"monthly_budget" db:"monthly_budget"`
	ActualHours   float64 `json:"actual_hours" db:"actual_hours"`
	Revenue       float64 `json:"revenue" db:"revenue"`

	// Derived fields, always written together by a recalculation.
	Profit         float64 `json:"profit" db:"profit"`
	Profitability  float64 `json:"profitability" db:"profitability"`
	RemainingHours float64 `json:"remaining_hours" db:"remaining_hours"`

	// Version is bumped on every update and guards against lost writes.
	Version int64 `json:"version" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Client *Client `json:"client,omitempty" db:"-"`
}

// ClientRef returns the record's client reference, expanded when available.
func (p Profitability) ClientRef() ClientRef {
	if p.Client != nil {
		return ExpandedClient(p.Client)
	}
	return ClientID(p.ClientID)
}

// ProfitabilityInput carries the optional profitability settings supplied
// when a client is created.
type ProfitabilityInput struct {
	HourlyRate    float64  `json:"hourly_rate"`
	TargetHours   *float64 `json:"target_hours,omitempty"`
	MonthlyBudget float64  `json:"monthly_budget"`
}

// ProfitabilityPatch is a manual edit. Nil fields are left unchanged.
type ProfitabilityPatch struct {
	HourlyRate    *float64 `json:"hourly_rate,omitempty"`
	TargetHours   *float64 `json:"target_hours,omitempty"`
	MonthlyBudget *float64 `json:"monthly_budget,omitempty"`
	ActualHours   *float64 `json:"actual_hours,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty"`

	// ExpectedVersion, when set, rejects the edit unless the stored record
	// is still at this version.
	ExpectedVersion *int64 `json:"version,omitempty"`
}
