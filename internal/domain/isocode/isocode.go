// Package isocode maps ISO 3166-1 numeric codes to alpha-3 codes and back.
package isocode

import (
	"github.com/biter777/countries"
)

var ( //nolint:gochecknoglobals // frozen lookup tables
	numericToAlpha3 = map[int]string{}
	alpha3ToNumeric = map[string]int{}
)

func init() { //nolint:gochecknoinits // tables are built once and never mutated
	for _, c := range countries.All() {
		a3 := c.Alpha3()
		if !isAlpha3(a3) {
			continue
		}
		n := int(c)
		numericToAlpha3[n] = a3
		alpha3ToNumeric[a3] = n
	}
}

// Alpha3 returns the alpha-3 code for an ISO numeric code.
func Alpha3(numeric int) (string, bool) {
	a3, ok := numericToAlpha3[numeric]
	return a3, ok
}

// Numeric returns the ISO numeric code for an alpha-3 code.
func Numeric(alpha3 string) (int, bool) {
	n, ok := alpha3ToNumeric[alpha3]
	return n, ok
}

// Len returns the number of known countries.
func Len() int { return len(alpha3ToNumeric) }

func isAlpha3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
