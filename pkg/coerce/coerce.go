// Package coerce converts raw layered values into the type of a known
// default. Conversion never fails loudly: a value that cannot be converted
// yields the default.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type family of a default value
type Kind int

const (
	// KindNone marks an untyped default; values pass through unchanged
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

// KindOf reports the kind of a default value
func KindOf(def interface{}) Kind {
	switch def.(type) {
	case bool:
		return KindBool
	case int, int64, int32:
		return KindInt
	case float64, float32:
		return KindFloat
	case string:
		return KindString
	case []string, []interface{}:
		return KindList
	default:
		return KindNone
	}
}

// To converts raw into the type of def. If raw cannot be converted the
// result equals def.
func To(def, raw interface{}) interface{} {
	kind := KindOf(def)
	if kind == KindNone {
		return raw
	}
	if raw == nil {
		return clone(def)
	}

	var (
		out interface{}
		ok  bool
	)
	switch kind {
	case KindBool:
		out, ok = toBool(raw)
	case KindInt:
		out, ok = toInt(raw)
	case KindFloat:
		out, ok = toFloat(raw)
	case KindString:
		out, ok = toString(raw), true
	case KindList:
		out, ok = toList(raw)
	}
	if !ok {
		return clone(def)
	}
	return out
}

func toBool(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "1", "true", "yes", "y", "on":
			return true, true
		case "0", "false", "no", "n", "off", "":
			return false, true
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n != 0, true
		}
	}
	return nil, false
}

func toInt(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, true
		}
	}
	return nil, false
}

func toFloat(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1.0, true
		}
		return 0.0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, true
		}
	}
	return nil, false
}

func toString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, toString(item))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v)
	}
}

func toList(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case []string:
		return append([]string{}, v...), true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out, true
	case string:
		s := strings.TrimSpace(v)
		if l := strings.ToLower(s); l == "none" || l == "null" {
			return []string{}, true
		}
		return strings.Fields(s), true
	case bool, int, int64, float64:
		return []string{fmt.Sprint(v)}, true
	}
	return nil, false
}

func clone(def interface{}) interface{} {
	switch v := def.(type) {
	case []string:
		return append([]string{}, v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float32:
		return float64(v)
	}
	return def
}

// Strings returns v as a string list, coercing when needed
func Strings(v interface{}) []string {
	return To([]string{}, v).([]string)
}

// String returns v as a string
func String(v interface{}) string {
	if v == nil {
		return ""
	}
	return toString(v)
}

// Int returns v as an int, 0 when it cannot convert
func Int(v interface{}) int {
	return To(0, v).(int)
}

// Bool returns v as a bool, false when it cannot convert
func Bool(v interface{}) bool {
	return To(false, v).(bool)
}
