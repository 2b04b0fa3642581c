package impact

// Calculator maps a device type and weight to composition and CO2 figures.
// It is immutable and safe for concurrent use.
type Calculator struct {
	tables *Tables
}

// Estimate bundles every figure derived from one device.
type Estimate struct {
	Category     Category    `json:"category"`
	Composition  Composition `json:"composition"`
	CO2Emissions float64     `json:"co2_emissions"`
}

// NewCalculator creates a Calculator over a private copy of tables.
func NewCalculator(tables *Tables) *Calculator {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Calculator{tables: tables.Clone()}
}

var defaultCalculator = NewCalculator(DefaultTables())

// Default returns the calculator over the built-in tables.
func Default() *Calculator {
	return defaultCalculator
}

// Tables returns a copy of the tables used by c.
func (c *Calculator) Tables() *Tables {
	return c.tables.Clone()
}

// DeviceTypes lists the device types c can classify.
func (c *Calculator) DeviceTypes() []DeviceType {
	return c.tables.ListDeviceTypes()
}

// Classify looks up the category of deviceType. Matching is exact and
// case-sensitive. Unknown types yield CategoryUnknown and false.
func (c *Calculator) Classify(deviceType string) (Category, bool) {
	category, ok := c.tables.DeviceTypes[deviceType]
	if !ok {
		return CategoryUnknown, false
	}
	if _, ok := c.tables.Profiles[category]; !ok {
		return CategoryUnknown, false
	}
	return category, true
}

// Composition returns weight * percent / 100 for every material of the
// device's category, or the zero Composition for unknown types. The weight is
// not validated: a NaN weight yields NaN in every field.
func (c *Calculator) Composition(weight float64, deviceType string) Composition {
	category, ok := c.Classify(deviceType)
	if !ok {
		return Composition{}
	}
	return c.tables.Profiles[category].Percent.scale(weight)
}

// CO2Emissions returns weight * factor for the device's category, or 0 for
// unknown types.
func (c *Calculator) CO2Emissions(weight float64, deviceType string) float64 {
	category, ok := c.Classify(deviceType)
	if !ok {
		return 0
	}
	return weight * c.tables.Profiles[category].CO2Factor
}

// Estimate computes category, composition and CO2 in one call.
func (c *Calculator) Estimate(weight float64, deviceType string) Estimate {
	category, _ := c.Classify(deviceType)
	return Estimate{
		Category:     category,
		Composition:  c.Composition(weight, deviceType),
		CO2Emissions: c.CO2Emissions(weight, deviceType),
	}
}

// Classify uses the built-in tables.
func Classify(deviceType string) (Category, bool) {
	return defaultCalculator.Classify(deviceType)
}

// ComputeComposition uses the built-in tables.
func ComputeComposition(weight float64, deviceType string) Composition {
	return defaultCalculator.Composition(weight, deviceType)
}

// ComputeCO2Emissions uses the built-in tables.
func ComputeCO2Emissions(weight float64, deviceType string) float64 {
	return defaultCalculator.CO2Emissions(weight, deviceType)
}
