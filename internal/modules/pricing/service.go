package pricing

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/printmill/printmill-backend/internal/storage/textfile"
)

// LoadReport tells a caller which keys a load actually applied. The boolean
// returned alongside it preserves the historical contract where an absent
// file and a partially rejected file both read as success.
type LoadReport struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// Service is the single source of truth for pricing configuration.
type Service interface {
	// Snapshot returns a copy of the current configuration for price
	// calculations. Mutating the copy has no effect on the store.
	Snapshot() Config

	// Update applies each present field through its defensive setter and
	// returns the resulting configuration.
	Update(req UpdateRequest) Config

	// ResetToDefaults restores the hard-coded defaults and fires the reset
	// hook, if one is wired.
	ResetToDefaults() Config

	// SaveToFile writes the configuration as key=value lines.
	SaveToFile() bool

	// LoadFromFile reads key=value lines back. Unknown keys and malformed
	// values are logged and skipped; the previous value is kept. A missing
	// file is not an error.
	LoadFromFile() (bool, LoadReport)
}

// UpdateRequest carries optional new parameter values. Nil fields are left
// untouched.
type UpdateRequest struct {
	ElectricityCostPerHour *float64 `json:"electricity_cost_per_hour,omitempty"`
	MachineTimeCostPerHour *float64 `json:"machine_time_cost_per_hour,omitempty"`
	BaseSetupCost          *float64 `json:"base_setup_cost,omitempty"`
	TaxRate                *float64 `json:"tax_rate,omitempty"`
	Currency               *string  `json:"currency,omitempty"`
	MaxOrderQuantity       *int     `json:"max_order_quantity,omitempty"`
	MaxOrderValue          *float64 `json:"max_order_value,omitempty"`
	AllowRushOrders        *bool    `json:"allow_rush_orders,omitempty"`
	RushOrderSurcharge     *float64 `json:"rush_order_surcharge,omitempty"`
}

type service struct {
	mu   sync.Mutex
	cfg  Config
	path string

	// resetHook runs after ResetToDefaults. Historically a configuration
	// reset also cleared the order registry; keeping the coupling as an
	// explicit hook makes either half independently callable.
	resetHook func()
}

// NewService creates a pricing configuration store backed by the key=value
// file at path. resetHook may be nil.
func NewService(path string, resetHook func()) Service {
	return &service{cfg: Defaults(), path: path, resetHook: resetHook}
}

func (s *service) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *service) Update(req UpdateRequest) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ElectricityCostPerHour != nil {
		s.cfg.SetElectricityCostPerHour(*req.ElectricityCostPerHour)
	}
	if req.MachineTimeCostPerHour != nil {
		s.cfg.SetMachineTimeCostPerHour(*req.MachineTimeCostPerHour)
	}
	if req.BaseSetupCost != nil {
		s.cfg.SetBaseSetupCost(*req.BaseSetupCost)
	}
	if req.TaxRate != nil {
		s.cfg.SetTaxRate(*req.TaxRate)
	}
	if req.Currency != nil {
		s.cfg.SetCurrency(*req.Currency)
	}
	if req.MaxOrderQuantity != nil {
		s.cfg.SetMaxOrderQuantity(*req.MaxOrderQuantity)
	}
	if req.MaxOrderValue != nil {
		s.cfg.SetMaxOrderValue(*req.MaxOrderValue)
	}
	if req.AllowRushOrders != nil {
		s.cfg.SetAllowRushOrders(*req.AllowRushOrders)
	}
	if req.RushOrderSurcharge != nil {
		s.cfg.SetRushOrderSurcharge(*req.RushOrderSurcharge)
	}
	return s.cfg
}

func (s *service) ResetToDefaults() Config {
	s.mu.Lock()
	s.cfg = Defaults()
	cfg := s.cfg
	hook := s.resetHook
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return cfg
}

// ── persistence ───────────────────────────────────────────────────────────────

const (
	keyElectricity   = "electricity_cost_per_hour"
	keyMachineTime   = "machine_time_cost_per_hour"
	keyBaseSetup     = "base_setup_cost"
	keyTaxRate       = "tax_rate"
	keyCurrency      = "currency"
	keyMaxQuantity   = "max_order_quantity"
	keyMaxValue      = "max_order_value"
	keyAllowRush     = "allow_rush_orders"
	keyRushSurcharge = "rush_order_surcharge"
)

func (s *service) SaveToFile() bool {
	s.mu.Lock()
	cfg := s.cfg
	path := s.path
	s.mu.Unlock()

	lines := []string{
		fmt.Sprintf("%s=%s", keyElectricity, formatFloat(cfg.ElectricityCostPerHour)),
		fmt.Sprintf("%s=%s", keyMachineTime, formatFloat(cfg.MachineTimeCostPerHour)),
		fmt.Sprintf("%s=%s", keyBaseSetup, formatFloat(cfg.BaseSetupCost)),
		fmt.Sprintf("%s=%s", keyTaxRate, formatFloat(cfg.TaxRate)),
		fmt.Sprintf("%s=%s", keyCurrency, cfg.Currency),
		fmt.Sprintf("%s=%d", keyMaxQuantity, cfg.MaxOrderQuantity),
		fmt.Sprintf("%s=%s", keyMaxValue, formatFloat(cfg.MaxOrderValue)),
		fmt.Sprintf("%s=%t", keyAllowRush, cfg.AllowRushOrders),
		fmt.Sprintf("%s=%s", keyRushSurcharge, formatFloat(cfg.RushOrderSurcharge)),
	}
	if err := textfile.WriteLines(path, "pricing configuration", lines); err != nil {
		log.Printf("pricing: save %s: %v", path, err)
		return false
	}
	return true
}

func (s *service) LoadFromFile() (bool, LoadReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report LoadReport
	err := textfile.ReadLines(s.path, func(line string) error {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Printf("pricing: skipping malformed line %q", line)
			report.Skipped = append(report.Skipped, line)
			return nil
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if s.applyKey(key, value) {
			report.Applied = append(report.Applied, key)
		} else {
			report.Skipped = append(report.Skipped, key)
		}
		return nil
	})
	if err != nil {
		log.Printf("pricing: load %s: %v", s.path, err)
		return false, report
	}
	return true, report
}

// applyKey routes one key=value pair through the matching defensive setter.
// Malformed values keep the previous parameter value.
func (s *service) applyKey(key, value string) bool {
	switch key {
	case keyElectricity:
		return s.applyFloat(key, value, s.cfg.SetElectricityCostPerHour)
	case keyMachineTime:
		return s.applyFloat(key, value, s.cfg.SetMachineTimeCostPerHour)
	case keyBaseSetup:
		return s.applyFloat(key, value, s.cfg.SetBaseSetupCost)
	case keyTaxRate:
		return s.applyFloat(key, value, s.cfg.SetTaxRate)
	case keyCurrency:
		s.cfg.SetCurrency(value)
		return true
	case keyMaxQuantity:
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("pricing: skipping malformed value for %s: %q", key, value)
			return false
		}
		s.cfg.SetMaxOrderQuantity(n)
		return true
	case keyMaxValue:
		return s.applyFloat(key, value, s.cfg.SetMaxOrderValue)
	case keyAllowRush:
		b, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("pricing: skipping malformed value for %s: %q", key, value)
			return false
		}
		s.cfg.SetAllowRushOrders(b)
		return true
	case keyRushSurcharge:
		return s.applyFloat(key, value, s.cfg.SetRushOrderSurcharge)
	default:
		log.Printf("pricing: skipping unknown key %q", key)
		return false
	}
}

func (s *service) applyFloat(key, value string, set func(float64)) bool {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("pricing: skipping malformed value for %s: %q", key, value)
		return false
	}
	set(f)
	return true
}

// formatFloat renders with the shortest representation that parses back to
// the identical bits, which is what makes save/load round-trips exact.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
