// Package timeline turns a donor's donation history into cumulative impact
// series for charting.
//
// Every series is cumulative: a point holds the running totals of metals,
// plastics and CO2 saved as of the end of its bucket, so values never
// decrease from one point to the next.
package timeline

import (
	"github.com/m-mizutani/goerr/v2"
)

// Window selects the bucketing strategy of a series.
type Window string

const (
	// WindowQuarter buckets the current calendar year by quarter.
	WindowQuarter Window = "Quarter"
	// WindowYear buckets the trailing 12 calendar months.
	WindowYear Window = "1 Year"
	// WindowFiveYears buckets the trailing 5 calendar years.
	WindowFiveYears Window = "5 Years"
	// WindowAllTime buckets every year since the first donation.
	WindowAllTime Window = "All Time"
)

// ErrUnknownWindow is returned for selector values outside the four windows.
var ErrUnknownWindow = goerr.New("unknown time window")

// Windows lists the selectable windows in UI order.
func Windows() []Window {
	return []Window{WindowQuarter, WindowYear, WindowFiveYears, WindowAllTime}
}

// String returns the string representation
func (w Window) String() string {
	return string(w)
}

// IsValid reports whether w is one of the four windows
func (w Window) IsValid() bool {
	for _, known := range Windows() {
		if w == known {
			return true
		}
	}
	return false
}

// ParseWindow converts a selector string into a Window.
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if !w.IsValid() {
		return "", goerr.Wrap(ErrUnknownWindow, "invalid window selector", goerr.V("window", s))
	}
	return w, nil
}
