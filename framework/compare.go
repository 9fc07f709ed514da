package framework

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Operator is one of the comparison operators accepted by T.Exec.
type Operator string

const (
	OpEqual          Operator = "=="
	OpStrictEqual    Operator = "==="
	OpNotEqual       Operator = "!="
	OpStrictNotEqual Operator = "!=="
	OpLess           Operator = "<"
	OpGreater        Operator = ">"
	OpLessOrEqual    Operator = "<="
	OpGreaterOrEqual Operator = ">="
)

// normalize maps an unrecognized operator to OpEqual.
func (op Operator) normalize() Operator {
	switch op {
	case OpEqual, OpStrictEqual, OpNotEqual, OpStrictNotEqual,
		OpLess, OpGreater, OpLessOrEqual, OpGreaterOrEqual:
		return op
	default:
		return OpEqual
	}
}

// Apply evaluates x op y.
//
// == and != compare loosely: deep-equal values are equal, and values that both look like
// numbers (Go numbers, booleans as 0/1, numeric strings) are compared numerically. === and
// !== require the same dynamic type. The ordering operators compare numbers numerically and
// strings lexically; any other combination is false. Unknown operators behave like ==.
func (op Operator) Apply(x, y interface{}) bool {
	switch op.normalize() {
	case OpStrictEqual:
		return strictEqual(x, y)
	case OpStrictNotEqual:
		return !strictEqual(x, y)
	case OpNotEqual:
		return !looseEqual(x, y)
	case OpLess:
		c, ok := order(x, y)
		return ok && c < 0
	case OpGreater:
		c, ok := order(x, y)
		return ok && c > 0
	case OpLessOrEqual:
		c, ok := order(x, y)
		return ok && c <= 0
	case OpGreaterOrEqual:
		c, ok := order(x, y)
		return ok && c >= 0
	default:
		return looseEqual(x, y)
	}
}

func strictEqual(x, y interface{}) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if reflect.TypeOf(x) != reflect.TypeOf(y) {
		return false
	}
	return reflect.DeepEqual(x, y)
}

func looseEqual(x, y interface{}) bool {
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	if reflect.DeepEqual(x, y) {
		return true
	}
	fx, okx := toNumber(x)
	fy, oky := toNumber(y)
	if okx && oky {
		return fx == fy
	}
	return false
}

// order returns -1, 0 or 1 for comparable operand pairs; ok is false otherwise.
func order(x, y interface{}) (int, bool) {
	if sx, ok := x.(string); ok {
		if sy, ok := y.(string); ok {
			return strings.Compare(sx, sy), true
		}
	}
	fx, okx := toNumber(x)
	fy, oky := toNumber(y)
	if !okx || !oky || math.IsNaN(fx) || math.IsNaN(fy) {
		return 0, false
	}
	switch {
	case fx < fy:
		return -1, true
	case fx > fy:
		return 1, true
	default:
		return 0, true
	}
}

// toNumber converts number-like values to float64.
func toNumber(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// truthy reports whether a single Exec operand counts as a passing assertion.
func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() != 0
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
