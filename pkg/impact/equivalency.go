package impact

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EPA greenhouse gas equivalency factors, kg CO2e per unit of activity.
const (
	EPAMilesDrivenFactor      = 0.192
	EPASmartphoneChargeFactor = 0.00822

	PoundsToKg = 0.453592

	// MinEquivalencyKg is the smallest amount worth translating into
	// equivalencies. Below it the numbers become meaninglessly small.
	MinEquivalencyKg = 1.0
)

var printer = message.NewPrinter(language.English)

// Equivalency is one relatable translation of a CO2 amount.
type Equivalency struct {
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
}

// Equivalencies is the result of Equivalent.
type Equivalencies struct {
	CO2Kg       float64       `json:"co2_kg"`
	Results     []Equivalency `json:"results"`
	DisplayText string        `json:"display_text"`
}

// IsEmpty reports whether no equivalency was computed.
func (e Equivalencies) IsEmpty() bool {
	return len(e.Results) == 0
}

// Equivalent translates pounds of CO2 saved into miles driven and
// smartphones charged.
func Equivalent(co2Pounds float64) Equivalencies {
	kg := Finite(co2Pounds) * PoundsToKg
	if kg < MinEquivalencyKg {
		return Equivalencies{CO2Kg: math.Max(kg, 0)}
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor

	milesText := FormatLarge(miles)
	phonesText := FormatLarge(phones)

	return Equivalencies{
		CO2Kg: kg,
		Results: []Equivalency{
			{Label: "miles driven", Value: miles, FormattedValue: milesText},
			{Label: "smartphones charged", Value: phones, FormattedValue: phonesText},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", milesText, phonesText),
	}
}

// FormatNumber formats n with thousand separators, e.g. 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatWeight formats a weight with one decimal and thousand separators.
func FormatWeight(v float64) string {
	rounded := math.Round(Finite(v)*10) / 10
	formatted := strconv.FormatFloat(rounded, 'f', 1, 64)

	intPart, fracPart, _ := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	if n == 0 && strings.HasPrefix(intPart, "-") {
		return formatted
	}
	return FormatNumber(n) + "." + fracPart
}

// FormatLarge abbreviates values of a million and above.
func FormatLarge(n float64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1f billion", n/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1f million", n/1_000_000)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
