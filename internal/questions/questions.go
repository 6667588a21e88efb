// Package questions generates short-form trivia problems and computes
// their canonical answers. The short form is the compact machine-checkable
// representation ("3 + 4", "10.0.0.0/24"); rendering it as a human prompt
// is left to the caller's presentation templates.
package questions

import (
	"fmt"
	"math/rand/v2"
)

// Category names, as they appear in match configuration and on the wire.
const (
	Mathematics      = "Mathematics"
	RomanNumerals    = "Roman Numerals"
	UsableIPs        = "Usable IP Addresses of a Subnet"
	NetworkBroadcast = "Network and Broadcast Address of a Subnet"
)

// Categories lists every supported category.
var Categories = []string{Mathematics, RomanNumerals, UsableIPs, NetworkBroadcast}

// Known reports whether category has a generator.
func Known(category string) bool {
	switch category {
	case Mathematics, RomanNumerals, UsableIPs, NetworkBroadcast:
		return true
	}
	return false
}

// Generate produces a fresh short-form problem for the category.
func Generate(category string) (string, error) {
	switch category {
	case Mathematics:
		return genMath(), nil
	case RomanNumerals:
		return genRoman(), nil
	case UsableIPs:
		return genUsableIPs(), nil
	case NetworkBroadcast:
		return genNetworkBroadcast(), nil
	}
	return "", fmt.Errorf("unknown question category %q", category)
}

// genMath builds a space-delimited infix expression of 2-5 operands.
// Addition and subtraction are weighted heavier than the rest.
func genMath() string {
	opsPool := []string{"+", "+", "+", "-", "-", "-", "*", "/"}
	n := 2 + rand.IntN(4)

	out := make([]byte, 0, 32)
	for i := range n {
		if i > 0 {
			out = append(out, ' ')
			out = append(out, opsPool[rand.IntN(len(opsPool))]...)
			out = append(out, ' ')
		}
		out = fmt.Appendf(out, "%d", 1+rand.IntN(100))
	}
	return string(out)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func genRoman() string {
	return romanFromInt(1 + rand.IntN(3999))
}

func romanFromInt(n int) string {
	out := make([]byte, 0, 16)
	for _, rn := range romanNumerals {
		for n >= rn.value {
			out = append(out, rn.symbol...)
			n -= rn.value
		}
	}
	return string(out)
}

func genUsableIPs() string {
	prefixes := []int{8, 16, 24, 25, 26, 27, 28, 29}
	prefix := prefixes[rand.IntN(len(prefixes))]

	// First octet avoids special-purpose ranges.
	a := 1 + rand.IntN(223)
	b := rand.IntN(256)
	c := rand.IntN(256)
	d := 0
	if prefix >= 25 && rand.IntN(2) == 1 {
		d = 128
	}
	return fmt.Sprintf("%d.%d.%d.%d/%d", a, b, c, d, prefix)
}

func genNetworkBroadcast() string {
	prefixes := []int{16, 24, 25, 26, 27, 28}
	prefix := prefixes[rand.IntN(len(prefixes))]

	a := 1 + rand.IntN(223)
	b := rand.IntN(256)
	c := rand.IntN(256)
	d := 1 + rand.IntN(254)
	return fmt.Sprintf("%d.%d.%d.%d/%d", a, b, c, d, prefix)
}
