package portfolio

import "fmt"

// Percent is a ratio expressed in percent (12.5 is 12.5%).
type Percent float64

// AsPercent converts a fraction (0.125) into a Percent (12.5%).
func AsPercent(fraction float64) Percent { return Percent(100 * fraction) }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
