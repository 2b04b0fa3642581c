package impact

import "math"

// Composition holds one value per material class. For a profile the values are
// percentages of device weight; for a computed estimate they are weights in the
// same unit as the device weight.
type Composition struct {
	FerrousMetal           float64 `json:"ferrous_metals" yaml:"ferrous_metals" firestore:"ferrous_metals"`
	Aluminum               float64 `json:"aluminum" yaml:"aluminum" firestore:"aluminum"`
	Copper                 float64 `json:"copper" yaml:"copper" firestore:"copper"`
	OtherMetals            float64 `json:"other_metals" yaml:"other_metals" firestore:"other_metals"`
	Plastic                float64 `json:"plastics" yaml:"plastics" firestore:"plastics"`
	PCB                    float64 `json:"pcb" yaml:"pcb" firestore:"pcb"`
	FlatPanelDisplayModule float64 `json:"flat_panel_display_module" yaml:"flat_panel_display_module" firestore:"flat_panel_display_module"`
	CRTGlassAndLead        float64 `json:"crt_glass_and_lead" yaml:"crt_glass_and_lead" firestore:"crt_glass_and_lead"`
	Battery                float64 `json:"batteries" yaml:"batteries" firestore:"batteries"`
}

// Fields returns the nine values in table order.
func (c Composition) Fields() [9]float64 {
	return [9]float64{
		c.FerrousMetal,
		c.Aluminum,
		c.Copper,
		c.OtherMetals,
		c.Plastic,
		c.PCB,
		c.FlatPanelDisplayModule,
		c.CRTGlassAndLead,
		c.Battery,
	}
}

// Metals is ferrous + aluminum + copper + other metals.
func (c Composition) Metals() float64 {
	return c.FerrousMetal + c.Aluminum + c.Copper + c.OtherMetals
}

// Total sums all nine fields.
func (c Composition) Total() float64 {
	var total float64
	for _, v := range c.Fields() {
		total += v
	}
	return total
}

// Add returns the field-wise sum of c and o.
func (c Composition) Add(o Composition) Composition {
	return Composition{
		FerrousMetal:           c.FerrousMetal + o.FerrousMetal,
		Aluminum:               c.Aluminum + o.Aluminum,
		Copper:                 c.Copper + o.Copper,
		OtherMetals:            c.OtherMetals + o.OtherMetals,
		Plastic:                c.Plastic + o.Plastic,
		PCB:                    c.PCB + o.PCB,
		FlatPanelDisplayModule: c.FlatPanelDisplayModule + o.FlatPanelDisplayModule,
		CRTGlassAndLead:        c.CRTGlassAndLead + o.CRTGlassAndLead,
		Battery:                c.Battery + o.Battery,
	}
}

// Sanitized replaces NaN and infinite fields with zero.
func (c Composition) Sanitized() Composition {
	return Composition{
		FerrousMetal:           Finite(c.FerrousMetal),
		Aluminum:               Finite(c.Aluminum),
		Copper:                 Finite(c.Copper),
		OtherMetals:            Finite(c.OtherMetals),
		Plastic:                Finite(c.Plastic),
		PCB:                    Finite(c.PCB),
		FlatPanelDisplayModule: Finite(c.FlatPanelDisplayModule),
		CRTGlassAndLead:        Finite(c.CRTGlassAndLead),
		Battery:                Finite(c.Battery),
	}
}

// scale computes weight * pct / 100 for every field.
func (c Composition) scale(weight float64) Composition {
	f := func(pct float64) float64 { return weight * pct / 100 }
	return Composition{
		FerrousMetal:           f(c.FerrousMetal),
		Aluminum:               f(c.Aluminum),
		Copper:                 f(c.Copper),
		OtherMetals:            f(c.OtherMetals),
		Plastic:                f(c.Plastic),
		PCB:                    f(c.PCB),
		FlatPanelDisplayModule: f(c.FlatPanelDisplayModule),
		CRTGlassAndLead:        f(c.CRTGlassAndLead),
		Battery:                f(c.Battery),
	}
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
