package catalog

import "fmt"

// Key is the (brand, type, color) tuple that identifies a material in the
// catalog and the inventory ledger.
type Key struct {
	Brand string `json:"brand"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Brand, k.Type, k.Color)
}

// Material describes a printable filament: who makes it, what plastic it is,
// what it costs per gram, and how hot the nozzle runs.
type Material struct {
	Brand       string  `json:"brand"`
	Type        string  `json:"type"` // PLA, PETG, ABS, TPU
	CostPerGram float64 `json:"cost_per_gram"`
	PrintTempC  int     `json:"print_temp_c"`
	Color       string  `json:"color"`
}

// Key returns the material's identity tuple.
func (m Material) Key() Key {
	return Key{Brand: m.Brand, Type: m.Type, Color: m.Color}
}

// DisplayName renders the human-readable name used in order records and the
// inventory file, e.g. "PLA - Overture (Black)".
func (m Material) DisplayName() string {
	return fmt.Sprintf("%s - %s (%s)", m.Type, m.Brand, m.Color)
}

// CreateMaterialRequest holds the data for adding a material to the catalog.
type CreateMaterialRequest struct {
	Brand       string  `json:"brand"`
	Type        string  `json:"type"`
	CostPerGram float64 `json:"cost_per_gram"`
	PrintTempC  int     `json:"print_temp_c"`
	Color       string  `json:"color"`
}
