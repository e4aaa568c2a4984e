package order

import (
	"time"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/pricing"
	"github.com/printmill/printmill-backend/internal/modules/user"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the closed set of statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// validTransitions defines the forward-only status state machine. The
// historical setter assigned any status unconditionally; UpdateStatus keeps
// that permissive behavior unless the caller asks for strict enforcement.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted},
	StatusCompleted:  {},
}

// CanTransition returns true if the move from current to next follows the
// forward-only machine.
func CanTransition(current, next Status) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Priority represents handling priority, independent of status and settable
// at any time.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityRush   Priority = "rush"
	PriorityVIP    Priority = "vip"
)

// ValidPriority reports whether p is one of the closed set of priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityNormal, PriorityRush, PriorityVIP:
		return true
	}
	return false
}

// Order represents one print job. Material and the user fields are
// denormalized stand-ins carried with the order, so a record survives
// catalog or account changes made after submission.
type Order struct {
	ID             int64            `json:"id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	Role           user.Role        `json:"role"`
	Material       catalog.Material `json:"material"`
	Dimensions     string           `json:"dimensions"` // "LxWxH"
	Quantity       int              `json:"quantity"`
	GramsPerUnit   int              `json:"grams_per_unit"`
	Instructions   string           `json:"instructions,omitempty"`
	Status         Status           `json:"status"`
	Priority       Priority         `json:"priority"`
	EstimatedHours float64          `json:"estimated_hours"`
	CreatedAt      time.Time        `json:"created_at"`
}

// RequiredGrams is the total material the order reserves.
func (o *Order) RequiredGrams() int {
	return o.Quantity * o.GramsPerUnit
}

// Price computes the order total under the given configuration:
// material cost plus setup, taxed, with a rush surcharge on top.
func (o *Order) Price(cfg pricing.Config) float64 {
	materialCost := o.Material.CostPerGram * float64(o.GramsPerUnit) * float64(o.Quantity)
	base := materialCost + cfg.BaseSetupCost
	withTax := base * (1 + cfg.TaxRate)
	if o.Priority == PriorityRush {
		withTax *= 1 + cfg.RushOrderSurcharge
	}
	return round2(withTax)
}

// EstimatePrintTimeHours is a display heuristic: half an hour of setup plus
// printing at 75 grams per hour. Monotone in quantity times grams.
func EstimatePrintTimeHours(quantity, gramsPerUnit int) float64 {
	return 0.5 + float64(quantity*gramsPerUnit)/75.0
}

// EstimateOperatingCost prices the machine time of the order's estimate at
// the configured electricity and machine-hour rates.
func (o *Order) EstimateOperatingCost(cfg pricing.Config) float64 {
	return round2(o.EstimatedHours * (cfg.ElectricityCostPerHour + cfg.MachineTimeCostPerHour))
}

// SubmitRequest is the payload for placing an order.
type SubmitRequest struct {
	Username     string      `json:"username"`
	Material     catalog.Key `json:"material"`
	Dimensions   string      `json:"dimensions"`
	Quantity     int         `json:"quantity"`
	GramsPerUnit int         `json:"grams_per_unit"`
	Instructions string      `json:"instructions,omitempty"`
	Priority     string      `json:"priority,omitempty"` // defaults to normal
}

// UpdateStatusRequest is the payload for reassigning an order's status.
// Strict opts into forward-only transition enforcement.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Strict bool   `json:"strict,omitempty"`
}

// UpdatePriorityRequest is the payload for changing an order's priority.
type UpdatePriorityRequest struct {
	Priority string `json:"priority"`
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
