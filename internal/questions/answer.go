package questions

import (
	"fmt"
	"strconv"
	"strings"
)

// Answer computes the canonical correct answer for a short-form problem.
// Answers are compared on the wire with exact string equality, so the
// formatting here is the single source of truth.
func Answer(category, short string) (string, error) {
	switch category {
	case Mathematics:
		n, err := evalMath(short)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case RomanNumerals:
		n, err := romanToInt(short)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case UsableIPs:
		_, prefix, err := splitCIDR(short)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(usableHosts(prefix)), nil

	case NetworkBroadcast:
		ip, prefix, err := splitCIDR(short)
		if err != nil {
			return "", err
		}
		base, err := ipToInt(ip)
		if err != nil {
			return "", err
		}
		network, broadcast := networkAndBroadcast(base, prefix)
		return fmt.Sprintf("%s and %s", intToIP(network), intToIP(broadcast)), nil
	}
	return "", fmt.Errorf("unknown question category %q", category)
}

var precedence = map[string]int{"+": 1, "-": 1, "*": 2, "/": 2}

// evalMath evaluates a space-delimited infix expression of non-negative
// integers via shunting-yard. Division is integer division, and dividing
// by zero yields 0 rather than an error.
func evalMath(expr string) (int, error) {
	var output []any // int operands and string operators, in RPN order
	var ops []string

	for _, tok := range strings.Fields(expr) {
		if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
			output = append(output, n)
			continue
		}
		prec, ok := precedence[tok]
		if !ok {
			return 0, fmt.Errorf("invalid token %q in expression %q", tok, expr)
		}
		for len(ops) > 0 && precedence[ops[len(ops)-1]] >= prec {
			output = append(output, ops[len(ops)-1])
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, tok)
	}
	for len(ops) > 0 {
		output = append(output, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}

	var stack []int
	for _, tok := range output {
		switch t := tok.(type) {
		case int:
			stack = append(stack, t)
		case string:
			if len(stack) < 2 {
				return 0, fmt.Errorf("unbalanced expression %q", expr)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			switch t {
			case "+":
				stack = append(stack, a+b)
			case "-":
				stack = append(stack, a-b)
			case "*":
				stack = append(stack, a*b)
			case "/":
				if b == 0 {
					stack = append(stack, 0)
				} else {
					stack = append(stack, intDiv(a, b))
				}
			}
		}
	}
	if len(stack) == 0 {
		return 0, fmt.Errorf("empty expression %q", expr)
	}
	return stack[len(stack)-1], nil
}

// intDiv is floor division, matching the arithmetic of the reference
// answers for negative intermediate values.
func intDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// romanToInt parses subtractive roman notation: scan right to left,
// subtracting any value smaller than the one to its right.
func romanToInt(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}

	total, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral %q", s)
		}
		if v < prev {
			total -= v
		} else {
			total += v
		}
		prev = v
	}
	return total, nil
}

// usableHosts is the number of assignable addresses in a prefix,
// clamped at zero for /31 and /32.
func usableHosts(prefix int) int {
	n := 1<<(32-prefix) - 2
	if n < 0 {
		return 0
	}
	return n
}

func splitCIDR(s string) (ip string, prefix int, err error) {
	ip, prefixStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return "", 0, fmt.Errorf("invalid CIDR %q", s)
	}
	prefix, err = strconv.Atoi(prefixStr)
	if err != nil || prefix < 0 || prefix > 32 {
		return "", 0, fmt.Errorf("invalid prefix length in %q", s)
	}
	return ip, prefix, nil
}

func ipToInt(ip string) (uint32, error) {
	var a, b, c, d int
	if _, err := fmt.Sscanf(ip, "%d.%d.%d.%d", &a, &b, &c, &d); err != nil {
		return 0, fmt.Errorf("invalid IPv4 address %q", ip)
	}
	for _, octet := range []int{a, b, c, d} {
		if octet < 0 || octet > 255 {
			return 0, fmt.Errorf("invalid IPv4 address %q", ip)
		}
	}
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d), nil
}

func intToIP(x uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", x>>24&255, x>>16&255, x>>8&255, x&255)
}

func networkAndBroadcast(base uint32, prefix int) (network, broadcast uint32) {
	mask := uint32(0xffffffff) << (32 - prefix)
	if prefix == 0 {
		mask = 0
	}
	network = base & mask
	broadcast = network | ^mask
	return network, broadcast
}
