package polyglot

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/naab-lang/naab/internal/runtime"
)

// ParseResult turns a foreign block's textual output into a host Value.
// Attempts, in order: integer, float, boolean, JSON array/object, raw
// string.
func ParseResult(out string) runtime.Value {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return runtime.Null
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return runtime.NewInt(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return runtime.NewFloat(f)
	}
	switch trimmed {
	case "true", "True":
		return runtime.TrueValue
	case "false", "False":
		return runtime.FalseValue
	case "null", "None", "nil":
		return runtime.Null
	}
	if strings.HasPrefix(trimmed, "\"") && gjson.Valid(trimmed) {
		return runtime.NewString(gjson.Parse(trimmed).Str)
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		if gjson.Valid(trimmed) {
			if v, ok := jsonToValue(gjson.Parse(trimmed)); ok {
				return v
			}
		}
	}
	return runtime.NewString(trimmed)
}

// jsonToValue converts a gjson result tree into host Values. Objects become
// Dicts (struct identity is not reconstructible from JSON alone), arrays
// become Lists, numbers become Int when integral.
func jsonToValue(r gjson.Result) (runtime.Value, bool) {
	switch r.Type {
	case gjson.Null:
		return runtime.Null, true
	case gjson.True:
		return runtime.TrueValue, true
	case gjson.False:
		return runtime.FalseValue, true
	case gjson.String:
		return runtime.NewString(r.Str), true
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !strings.ContainsAny(r.Raw, ".eE") {
			return runtime.NewInt(int64(r.Num)), true
		}
		return runtime.NewFloat(r.Num), true
	case gjson.JSON:
		if r.IsArray() {
			list := runtime.NewList(nil)
			ok := true
			r.ForEach(func(_, elem gjson.Result) bool {
				v, o := jsonToValue(elem)
				if !o {
					ok = false
					return false
				}
				list.Elems = append(list.Elems, v)
				return true
			})
			return list, ok
		}
		if r.IsObject() {
			dict := runtime.NewDict()
			ok := true
			r.ForEach(func(key, elem gjson.Result) bool {
				v, o := jsonToValue(elem)
				if !o {
					ok = false
					return false
				}
				dict.Set(key.Str, v)
				return true
			})
			return dict, ok
		}
	}
	return nil, false
}

// JSONToValue parses standalone JSON text into a host Value, used by tests
// and by executors that emit JSON directly.
func JSONToValue(js string) (runtime.Value, bool) {
	if !gjson.Valid(js) {
		return nil, false
	}
	return jsonToValue(gjson.Parse(js))
}
