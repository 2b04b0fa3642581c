package impact

import (
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// Profile is the static composition and emission data of one category.
type Profile struct {
	// Percent holds the share of device weight per material class, 0 to 100.
	// Shares need not add up to 100.
	Percent Composition `yaml:"percent"`

	// CO2Factor is pounds of CO2 saved per pound of device weight.
	CO2Factor float64 `yaml:"co2_factor"`
}

// Tables holds the lookup data used by a Calculator. A Tables value is never
// mutated after it is handed to NewCalculator.
type Tables struct {
	Profiles    map[Category]Profile `yaml:"profiles"`
	DeviceTypes map[string]Category  `yaml:"device_types"`
}

// DefaultTables returns the built-in lookup tables.
func DefaultTables() *Tables {
	return &Tables{
		Profiles: map[Category]Profile{
			CategoryCPU: {
				Percent:   Composition{FerrousMetal: 59, Aluminum: 11, Copper: 4, OtherMetals: 2, Plastic: 12, PCB: 14, Battery: 18},
				CO2Factor: 0.40,
			},
			CategoryPortableDevices: {
				Percent:   Composition{FerrousMetal: 7, Aluminum: 12, Copper: 2, OtherMetals: 4, Plastic: 27, PCB: 14, FlatPanelDisplayModule: 16},
				CO2Factor: 0.88,
			},
			CategoryFlatPanelDisplays: {
				Percent:   Composition{FerrousMetal: 37, Aluminum: 7, Plastic: 22, PCB: 6, FlatPanelDisplayModule: 26},
				CO2Factor: 0.73,
			},
			CategoryCRTDisplays: {
				Percent:   Composition{FerrousMetal: 5, Aluminum: 3, PCB: 1, CRTGlassAndLead: 59},
				CO2Factor: 0.63,
			},
			CategoryElectronicPeripherals: {
				Percent:   Composition{FerrousMetal: 2, Copper: 26, Plastic: 8},
				CO2Factor: 2.22,
			},
			CategoryHardCopyDevices: {
				Percent:   Composition{FerrousMetal: 37, Copper: 1, Plastic: 59, PCB: 3},
				CO2Factor: 1.91,
			},
		},
		DeviceTypes: map[string]Category{
			"CPU":                 CategoryCPU,
			"Smartphone":          CategoryPortableDevices,
			"Tablet":              CategoryPortableDevices,
			"Laptop":              CategoryPortableDevices,
			"Modern Monitor":      CategoryFlatPanelDisplays,
			"Laptop Screen":       CategoryFlatPanelDisplays,
			"CRT Monitor":         CategoryCRTDisplays,
			"Mouse":               CategoryElectronicPeripherals,
			"Keyboard":            CategoryElectronicPeripherals,
			"External Hard Drive": CategoryElectronicPeripherals,
			"Charger":             CategoryElectronicPeripherals,
			"Printer":             CategoryHardCopyDevices,
			"Scanner":             CategoryHardCopyDevices,
			"Copier":              CategoryHardCopyDevices,
		},
	}
}

// Validate checks that every device type maps to a category with a profile and
// that every profile holds sane numbers.
func (t *Tables) Validate() error {
	if t == nil {
		return goerr.New("tables are nil")
	}
	if len(t.Profiles) == 0 {
		return goerr.New("at least one profile is required")
	}
	if len(t.DeviceTypes) == 0 {
		return goerr.New("at least one device type is required")
	}

	for category, profile := range t.Profiles {
		if category == CategoryUnknown {
			return goerr.New("profile category is empty")
		}
		for _, pct := range profile.Percent.Fields() {
			if math.IsNaN(pct) || pct < 0 || pct > 100 {
				return goerr.New("composition percent out of range",
					goerr.V("category", category),
					goerr.V("percent", pct))
			}
		}
		if math.IsNaN(profile.CO2Factor) || math.IsInf(profile.CO2Factor, 0) || profile.CO2Factor < 0 {
			return goerr.New("invalid CO2 factor",
				goerr.V("category", category),
				goerr.V("factor", profile.CO2Factor))
		}
	}

	for name, category := range t.DeviceTypes {
		if name == "" {
			return goerr.New("device type name is empty")
		}
		if _, ok := t.Profiles[category]; !ok {
			return goerr.New("device type maps to a category without profile",
				goerr.V("device_type", name),
				goerr.V("category", category))
		}
	}

	return nil
}

// Clone returns a deep copy of t.
func (t *Tables) Clone() *Tables {
	c := &Tables{
		Profiles:    make(map[Category]Profile, len(t.Profiles)),
		DeviceTypes: make(map[string]Category, len(t.DeviceTypes)),
	}
	for k, v := range t.Profiles {
		c.Profiles[k] = v
	}
	for k, v := range t.DeviceTypes {
		c.DeviceTypes[k] = v
	}
	return c
}

// ListDeviceTypes returns every device type sorted by category order, then name.
func (t *Tables) ListDeviceTypes() []DeviceType {
	order := make(map[Category]int)
	for i, c := range Categories() {
		order[c] = i
	}

	result := make([]DeviceType, 0, len(t.DeviceTypes))
	for name, category := range t.DeviceTypes {
		result = append(result, DeviceType{Name: name, Category: category})
	}
	sort.Slice(result, func(i, j int) bool {
		oi, iok := order[result[i].Category]
		oj, jok := order[result[j].Category]
		if !iok {
			oi = len(order)
		}
		if !jok {
			oj = len(order)
		}
		if oi != oj {
			return oi < oj
		}
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result
}
