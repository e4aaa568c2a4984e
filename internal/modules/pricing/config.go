package pricing

// Config holds the tunable pricing, tax, and order-limit parameters shared by
// the whole system. Setters are best-effort: an out-of-range value is ignored
// and the previous value kept, so callers that must confirm an assignment
// read it back through the getter.
type Config struct {
	ElectricityCostPerHour float64
	MachineTimeCostPerHour float64
	BaseSetupCost          float64
	TaxRate                float64 // fraction in [0,1]
	Currency               string
	MaxOrderQuantity       int
	MaxOrderValue          float64
	AllowRushOrders        bool
	RushOrderSurcharge     float64 // fraction in [0,1]
}

// Defaults returns the hard-coded startup configuration.
func Defaults() Config {
	return Config{
		ElectricityCostPerHour: 0.15,
		MachineTimeCostPerHour: 2.50,
		BaseSetupCost:          5.00,
		TaxRate:                0.08,
		Currency:               "USD",
		MaxOrderQuantity:       100,
		MaxOrderValue:          10000,
		AllowRushOrders:        true,
		RushOrderSurcharge:     0.25,
	}
}

func (c *Config) SetElectricityCostPerHour(v float64) {
	if v >= 0 {
		c.ElectricityCostPerHour = v
	}
}

func (c *Config) SetMachineTimeCostPerHour(v float64) {
	if v >= 0 {
		c.MachineTimeCostPerHour = v
	}
}

func (c *Config) SetBaseSetupCost(v float64) {
	if v >= 0 {
		c.BaseSetupCost = v
	}
}

func (c *Config) SetTaxRate(v float64) {
	if v >= 0 && v <= 1 {
		c.TaxRate = v
	}
}

func (c *Config) SetCurrency(v string) {
	if v != "" {
		c.Currency = v
	}
}

func (c *Config) SetMaxOrderQuantity(v int) {
	if v > 0 {
		c.MaxOrderQuantity = v
	}
}

func (c *Config) SetMaxOrderValue(v float64) {
	if v > 0 {
		c.MaxOrderValue = v
	}
}

func (c *Config) SetAllowRushOrders(v bool) {
	c.AllowRushOrders = v
}

func (c *Config) SetRushOrderSurcharge(v float64) {
	if v >= 0 && v <= 1 {
		c.RushOrderSurcharge = v
	}
}
