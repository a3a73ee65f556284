package jsoncore

import (
	"math"
	"math/big"
	"strconv"
)

// NumberKind classifies a parsed JSON number. Promotion always tries
// narrower first: Int64, then BigInt (which also stands in for the
// spec's Int128 — Go has no native 128-bit integer and nothing in the
// reference pack offers one, see DESIGN.md), then Float64, then
// BigFloat.
type NumberKind int

// Number kinds, narrowest first.
const (
	NumberInt64 NumberKind = iota
	NumberBigInt
	NumberFloat64
	NumberBigFloat
)

// NumberValue is the result of running the numeric ladder over a
// number token. It stands in for the "external numeric primitive"
// spec.md treats as an out-of-scope collaborator: a concrete, minimal
// instance is needed to exercise the rest of CORE end to end.
type NumberValue struct {
	kind NumberKind
	i64  int64
	big  *big.Int
	f64  float64
	bigf *big.Float
}

// Kind reports which rung of the ladder this value landed on.
func (n NumberValue) Kind() NumberKind { return n.kind }

// KindKeepsInt128Range reports whether a BigInt-kind value also fits
// the signed 128-bit range, for callers that need exact int128
// semantics without paying for full bigint arithmetic elsewhere.
func (n NumberValue) KindKeepsInt128Range() bool {
	if n.kind != NumberBigInt {
		return n.kind == NumberInt64
	}
	return n.big.Cmp(minInt128) >= 0 && n.big.Cmp(maxInt128) <= 0
}

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Any boxes the number into the narrowest Go type that represents its
// kind, for use as a generic-materializer leaf value.
func (n NumberValue) Any() any {
	switch n.kind {
	case NumberInt64:
		return n.i64
	case NumberBigInt:
		return n.big
	case NumberFloat64:
		return n.f64
	case NumberBigFloat:
		return n.bigf
	default:
		return nil
	}
}

// ParseNumber runs the promotion ladder over a delimited number span.
// Under Float64 every number (including NaN/Inf forms legalized by
// that option) parses as Float64, per spec §3.
func ParseNumber(span []byte, opts Options) (NumberValue, error) {
	s := string(span)
	if opts.Float64 {
		f, err := parseSpecialFloat(s)
		if err == nil {
			return NumberValue{kind: NumberFloat64, f64: f}, nil
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return NumberValue{}, newError(ErrorInvalidNumber, 0, "number")
		}
		return NumberValue{kind: NumberFloat64, f64: f}, nil
	}

	if isIntegerSpan(span) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NumberValue{kind: NumberInt64, i64: i}, nil
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return NumberValue{}, newError(ErrorInvalidNumber, 0, "number")
		}
		return NumberValue{kind: NumberBigInt, big: bi}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NumberValue{}, newError(ErrorInvalidNumber, 0, "number")
	}
	if roundTripsExactly(s, f) {
		return NumberValue{kind: NumberFloat64, f64: f}, nil
	}
	bf, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		return NumberValue{kind: NumberFloat64, f64: f}, nil
	}
	return NumberValue{kind: NumberBigFloat, bigf: bf}, nil
}

func isIntegerSpan(span []byte) bool {
	for _, b := range span {
		if b == '.' || b == 'e' || b == 'E' {
			return false
		}
	}
	return true
}

// roundTripsExactly reports whether float64 carries enough precision
// to reproduce the literal span, the threshold for promoting to
// BigFloat instead: format f back with its shortest round-tripping
// decimal representation and check that it denotes the same decimal
// value as the original literal (so "3600.0" and "1e3" stay Float64).
func roundTripsExactly(s string, f float64) bool {
	short := strconv.FormatFloat(f, 'g', -1, 64)
	if short == trimLeadingPlus(s) {
		return true
	}
	lit, _, err1 := big.ParseFloat(s, 10, 512, big.ToNearestEven)
	back, _, err2 := big.ParseFloat(short, 10, 512, big.ToNearestEven)
	return err1 == nil && err2 == nil && lit.Cmp(back) == 0
}

func trimLeadingPlus(s string) string {
	if len(s) > 0 && s[0] == '+' {
		return s[1:]
	}
	return s
}

func parseSpecialFloat(s string) (float64, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Inf", "+Inf":
		return math.Inf(1), nil
	case "-Inf":
		return math.Inf(-1), nil
	}
	return 0, newError(ErrorInvalidNumber, 0, "number")
}
