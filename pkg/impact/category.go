// Package impact estimates the material composition and CO2 savings of a
// donated electronic device.
//
// A device type such as "Laptop" is first classified into one of six coarse
// categories. Each category carries a static material composition profile
// (percent of device weight per material class) and a CO2 emission factor
// (pounds of CO2 saved per pound of device diverted from landfill).
package impact

// Category is a coarse device grouping that selects a composition profile.
type Category string

const (
	// CategoryUnknown is returned for device types outside the tracked taxonomy.
	CategoryUnknown Category = ""

	CategoryCPU                   Category = "CPU"
	CategoryPortableDevices       Category = "portable-devices"
	CategoryFlatPanelDisplays     Category = "flat-panel-displays"
	CategoryCRTDisplays           Category = "CRT-displays"
	CategoryElectronicPeripherals Category = "electronic-peripherals"
	CategoryHardCopyDevices       Category = "hard-copy-devices"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryCPU,
		CategoryPortableDevices,
		CategoryFlatPanelDisplays,
		CategoryCRTDisplays,
		CategoryElectronicPeripherals,
		CategoryHardCopyDevices,
	}
}

// String returns the string representation
func (c Category) String() string {
	if c == CategoryUnknown {
		return "unknown"
	}
	return string(c)
}

// IsKnown reports whether c is one of the six tracked categories.
func (c Category) IsKnown() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// DeviceType pairs a device type name with the category it maps to.
type DeviceType struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
}
