package impact_test

import (
	"math"
	"testing"

	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/m-mizutani/gt"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestClassify(t *testing.T) {
	tests := []struct {
		deviceType string
		expected   impact.Category
		ok         bool
	}{
		{"CPU", impact.CategoryCPU, true},
		{"Smartphone", impact.CategoryPortableDevices, true},
		{"Tablet", impact.CategoryPortableDevices, true},
		{"Laptop", impact.CategoryPortableDevices, true},
		{"Modern Monitor", impact.CategoryFlatPanelDisplays, true},
		{"Laptop Screen", impact.CategoryFlatPanelDisplays, true},
		{"CRT Monitor", impact.CategoryCRTDisplays, true},
		{"Mouse", impact.CategoryElectronicPeripherals, true},
		{"Keyboard", impact.CategoryElectronicPeripherals, true},
		{"External Hard Drive", impact.CategoryElectronicPeripherals, true},
		{"Charger", impact.CategoryElectronicPeripherals, true},
		{"Printer", impact.CategoryHardCopyDevices, true},
		{"Scanner", impact.CategoryHardCopyDevices, true},
		{"Copier", impact.CategoryHardCopyDevices, true},
		{"laptop", impact.CategoryUnknown, false},
		{"Toaster", impact.CategoryUnknown, false},
		{"", impact.CategoryUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.deviceType, func(t *testing.T) {
			category, ok := impact.Classify(tt.deviceType)
			gt.Equal(t, tt.expected, category)
			gt.Equal(t, tt.ok, ok)
		})
	}
}

func TestComposition(t *testing.T) {
	t.Run("laptop of 20 pounds", func(t *testing.T) {
		c := impact.ComputeComposition(20, "Laptop")
		gt.Equal(t, impact.Composition{
			FerrousMetal:           1.4,
			Aluminum:               2.4,
			Copper:                 0.4,
			OtherMetals:            0.8,
			Plastic:                5.4,
			PCB:                    2.8,
			FlatPanelDisplayModule: 3.2,
		}, c)
		gt.Equal(t, 17.6, impact.ComputeCO2Emissions(20, "Laptop"))
	})

	t.Run("unknown type is all zero", func(t *testing.T) {
		for _, w := range []float64{0, 1, 250, math.NaN()} {
			gt.Equal(t, impact.Composition{}, impact.ComputeComposition(w, "Toaster"))
			gt.Equal(t, 0.0, impact.ComputeCO2Emissions(w, "Toaster"))
		}
	})

	t.Run("NaN weight propagates", func(t *testing.T) {
		c := impact.ComputeComposition(math.NaN(), "CPU")
		for _, v := range c.Fields() {
			gt.True(t, math.IsNaN(v))
		}
		gt.True(t, math.IsNaN(impact.ComputeCO2Emissions(math.NaN(), "CPU")))
	})

	t.Run("fields never exceed the profile share of weight", func(t *testing.T) {
		calc := impact.Default()
		tables := calc.Tables()
		for _, dt := range calc.DeviceTypes() {
			share := tables.Profiles[dt.Category].Percent.Total() / 100
			for _, w := range []float64{0, 0.5, 1, 13.7, 100, 4000} {
				total := calc.Composition(w, dt.Name).Total()
				gt.True(t, total <= w*share+epsilon)
				// The CPU profile lists 120% in total; every other profile stays within the weight.
				if dt.Category != impact.CategoryCPU {
					gt.True(t, total <= w+epsilon)
				}
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a := impact.ComputeComposition(42.5, "Printer")
		b := impact.ComputeComposition(42.5, "Printer")
		gt.Equal(t, a, b)
		gt.Equal(t, impact.ComputeCO2Emissions(42.5, "Printer"), impact.ComputeCO2Emissions(42.5, "Printer"))
	})
}

func TestCO2Emissions(t *testing.T) {
	gt.Equal(t, 88.0, impact.ComputeCO2Emissions(100, "Laptop"))

	tables := impact.DefaultTables()
	for name, category := range tables.DeviceTypes {
		t.Run(name, func(t *testing.T) {
			factor := tables.Profiles[category].CO2Factor
			gt.Equal(t, 37*factor, impact.ComputeCO2Emissions(37, name))
		})
	}
}

func TestCalculatorSubstituteTables(t *testing.T) {
	tables := &impact.Tables{
		Profiles: map[impact.Category]impact.Profile{
			impact.CategoryCPU: {Percent: impact.Composition{Copper: 50}, CO2Factor: 2},
		},
		DeviceTypes: map[string]impact.Category{"Server": impact.CategoryCPU},
	}
	calc := impact.NewCalculator(tables)

	// Mutating the source tables must not leak into the calculator
	tables.DeviceTypes["Server"] = impact.CategoryCRTDisplays
	delete(tables.Profiles, impact.CategoryCPU)

	est := calc.Estimate(10, "Server")
	gt.Equal(t, impact.CategoryCPU, est.Category)
	gt.True(t, approx(5, est.Composition.Copper))
	gt.True(t, approx(20, est.CO2Emissions))

	_, ok := calc.Classify("Laptop")
	gt.False(t, ok)
}

func TestTablesValidate(t *testing.T) {
	t.Run("default tables are valid", func(t *testing.T) {
		gt.NoError(t, impact.DefaultTables().Validate())
	})

	t.Run("percent out of range", func(t *testing.T) {
		tables := impact.DefaultTables()
		p := tables.Profiles[impact.CategoryCPU]
		p.Percent.Plastic = 120
		tables.Profiles[impact.CategoryCPU] = p
		gt.Error(t, tables.Validate())
	})

	t.Run("negative factor", func(t *testing.T) {
		tables := impact.DefaultTables()
		p := tables.Profiles[impact.CategoryCPU]
		p.CO2Factor = -1
		tables.Profiles[impact.CategoryCPU] = p
		gt.Error(t, tables.Validate())
	})

	t.Run("device type without profile", func(t *testing.T) {
		tables := impact.DefaultTables()
		tables.DeviceTypes["Fax"] = impact.Category("fax-machines")
		gt.Error(t, tables.Validate())
	})
}

func TestListDeviceTypes(t *testing.T) {
	types := impact.Default().DeviceTypes()
	gt.Equal(t, 14, len(types))
	gt.Equal(t, impact.DeviceType{Name: "CPU", Category: impact.CategoryCPU}, types[0])
	gt.Equal(t, impact.CategoryHardCopyDevices, types[len(types)-1].Category)
}

func TestEquivalent(t *testing.T) {
	t.Run("below threshold is empty", func(t *testing.T) {
		eq := impact.Equivalent(1)
		gt.True(t, eq.IsEmpty())
	})

	t.Run("miles and phones", func(t *testing.T) {
		// 150 kg expressed in pounds
		eq := impact.Equivalent(150 / impact.PoundsToKg)
		gt.False(t, eq.IsEmpty())
		gt.True(t, math.Abs(eq.Results[0].Value-781.25) < 0.01)
		gt.Equal(t, "781", eq.Results[0].FormattedValue)
		gt.Equal(t, "18,248", eq.Results[1].FormattedValue)
		gt.S(t, eq.DisplayText).Contains("smartphones")
	})

	t.Run("NaN is treated as zero", func(t *testing.T) {
		eq := impact.Equivalent(math.NaN())
		gt.True(t, eq.IsEmpty())
		gt.Equal(t, 0.0, eq.CO2Kg)
	})
}

func TestFormat(t *testing.T) {
	gt.Equal(t, "1,234,567", impact.FormatNumber(1234567))
	gt.Equal(t, "1.5 million", impact.FormatLarge(1_500_000))
	gt.Equal(t, "2.0 billion", impact.FormatLarge(2_000_000_000))
	gt.Equal(t, "1,234.6", impact.FormatWeight(1234.56))
}
