package oref

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// roundTo rounds value to the given number of decimal places.
func roundTo(value float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(value*scale) / scale
}

// newPumpModels are the model-string substrings for pumps that use a
// 0.025 U/hr increment instead of the default 0.05.
var newPumpModels = []string{"523", "723", "554", "754", "530G", "630G", "670G", "770G", "780G"}

// pumpIncrement returns the basal-rate rounding increment for a pump
// model string.
func pumpIncrement(model string) float64 {
	for _, m := range newPumpModels {
		if strings.Contains(model, m) {
			return 0.025
		}
	}
	return 0.05
}

// roundToIncrement rounds a basal rate to the pump's native increment.
// Rates above 10 U/hr always round to the nearest 0.1 regardless of the
// pump's usual increment.
func roundToIncrement(rate, increment float64) float64 {
	if rate > 10.0 {
		return math.Round(rate*10) / 10
	}
	return math.Round(rate/increment) * increment
}

// roundBasal rounds a basal rate to the profile's pump increment.
func roundBasal(rate float64, p Profile) float64 {
	inc := p.PumpIncrement
	if inc <= 0 {
		inc = pumpIncrement(p.Model)
	}
	return roundToIncrement(rate, inc)
}

// median returns the 50th percentile of data via gonum's empirical
// quantile estimator. data must be sorted ascending; it is not mutated
// here, the caller is expected to have sorted it already.
func median(sortedData []float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}
	return stat.Quantile(0.5, stat.Empirical, sortedData, nil)
}

// sortedCopy returns a sorted ascending copy of data, leaving the input
// untouched.
func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
