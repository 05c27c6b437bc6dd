package value

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumberText parses s using bconf's numeric grammar (spec.md
// §4.4): an optional leading sign, digits with single (non-leading,
// non-trailing, non-consecutive) underscores as separators, an
// optional `.digits` fraction, and an optional exponent, which
// promotes the result to Float. It's shared by the parser's
// identifier-to-number classification and the `number`/`int`/`float`
// built-in tags' string-argument parsing.
func ParseNumberText(s string) (Value, error) {
	if s == "" {
		return nil, fmt.Errorf("invalid number: empty")
	}
	if err := validateUnderscores(s); err != nil {
		return nil, err
	}
	clean := strings.ReplaceAll(s, "_", "")

	isFloat := strings.ContainsAny(clean, ".eE")
	lower := strings.ToLower(clean)
	if strings.Contains(lower, "nan") || strings.Contains(lower, "inf") {
		return nil, fmt.Errorf("invalid number %q: NaN/Infinity not permitted", s)
	}

	if !isFloat {
		n, err := strconv.ParseInt(clean, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		return Int(n), nil
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

func validateUnderscores(s string) error {
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return fmt.Errorf("invalid number %q: leading or trailing underscore", s)
	}
	if strings.Contains(s, "__") {
		return fmt.Errorf("invalid number %q: consecutive underscores", s)
	}
	return nil
}

// ToText coerces a primitive Value to its textual form, as used by
// embedded-expression substitution and the `string` built-in tag
// (spec.md §4.5, §6): strings pass through, numbers are formatted,
// booleans render as true/false, null renders as "null".
func ToText(v Value) (string, error) {
	switch t := v.(type) {
	case Str:
		return string(t), nil
	case Int:
		return t.String(), nil
	case Float:
		return t.String(), nil
	case Bool:
		return t.String(), nil
	case Null:
		return "null", nil
	default:
		return "", fmt.Errorf("cannot convert %v to text", v.Kind())
	}
}

// ToNumber coerces a primitive Value to Int or Float per the `number`
// built-in tag's rules (spec.md §6): true->1, false->0, null->0,
// numbers pass through, strings are parsed with the numeric grammar.
func ToNumber(v Value) (Value, error) {
	switch t := v.(type) {
	case Int:
		return t, nil
	case Float:
		return t, nil
	case Bool:
		if t {
			return Int(1), nil
		}
		return Int(0), nil
	case Null:
		return Int(0), nil
	case Str:
		return ParseNumberText(string(t))
	default:
		return nil, fmt.Errorf("cannot convert %v to number", v.Kind())
	}
}

// ToInt coerces v to Int via ToNumber, truncating a float toward
// zero (the `int` built-in tag, spec.md §6).
func ToInt(v Value) (Value, error) {
	n, err := ToNumber(v)
	if err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case Int:
		return t, nil
	case Float:
		return Int(int64(t)), nil
	default:
		return nil, fmt.Errorf("cannot convert %v to int", v.Kind())
	}
}

// ToFloat coerces v to Float via ToNumber (the `float` built-in tag,
// spec.md §6).
func ToFloat(v Value) (Value, error) {
	n, err := ToNumber(v)
	if err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case Int:
		return Float(float64(t)), nil
	case Float:
		return t, nil
	default:
		return nil, fmt.Errorf("cannot convert %v to float", v.Kind())
	}
}

// ToBool coerces a primitive Value per the `bool` built-in tag
// (spec.md §6): identity for bool, null->false, number != 0 -> true,
// non-empty string -> true.
func ToBool(v Value) (Value, error) {
	switch t := v.(type) {
	case Bool:
		return t, nil
	case Null:
		return Bool(false), nil
	case Int:
		return Bool(t != 0), nil
	case Float:
		return Bool(t != 0), nil
	case Str:
		return Bool(len(t) > 0), nil
	default:
		return nil, fmt.Errorf("cannot convert %v to bool", v.Kind())
	}
}
