package grok

import "strconv"

// TypedFields converts captured values to int64, uint64 or float64 where
// the text is a plain integer or decimal number. Everything else stays a
// string.
func TypedFields(fields map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		out[name] = typedValue(value)
	}
	return out
}

func typedValue(s string) any {
	switch {
	case isInteger(s):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case isDecimal(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func trimSign(s string) string {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[1:]
	}
	return s
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isInteger matches [+-]?[0-9]+.
func isInteger(s string) bool {
	s = trimSign(s)
	return s != "" && allDigits(s)
}

// isDecimal matches [+-]?[0-9]*\.[0-9]+.
func isDecimal(s string) bool {
	s = trimSign(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return allDigits(s[:i]) && i+1 < len(s) && allDigits(s[i+1:])
		}
	}
	return false
}
