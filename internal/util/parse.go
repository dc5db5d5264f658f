package util

import "strconv"

// FormatPrice renders a price in its shortest decimal form: 15000, 15000.5.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
