package polyglot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/naab-lang/naab/internal/runtime"
)

// ValueToJSON renders a host Value as JSON text, used both for foreign-side
// prologues (lists, dicts, and structs become array/object literals) and for
// round-trip tests. Built incrementally with sjson so no intermediate Go
// structures are needed; struct values serialize as objects keyed by field
// name.
func ValueToJSON(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.NullValue:
		return "null"
	case *runtime.BoolValue:
		return strconv.FormatBool(x.Value)
	case *runtime.IntValue:
		return strconv.FormatInt(x.Value, 10)
	case *runtime.FloatValue:
		return strconv.FormatFloat(x.Value, 'g', -1, 64)
	case *runtime.StringValue:
		s, _ := sjson.Set(`{"s":0}`, "s", x.Value)
		// Extract the encoded string literal back out of the scratch object.
		return s[len(`{"s":`) : len(s)-1]
	case *runtime.ListValue:
		out := "[]"
		for i, e := range x.Elems {
			out, _ = sjson.SetRaw(out, strconv.Itoa(i), ValueToJSON(e))
		}
		return out
	case *runtime.DictValue:
		out := "{}"
		for _, k := range x.Keys() {
			out, _ = sjson.SetRaw(out, escapeKey(k), ValueToJSON(x.Entries[k]))
		}
		return out
	case *runtime.StructValue:
		out := "{}"
		for i, f := range x.Fields {
			out, _ = sjson.SetRaw(out, escapeKey(f), ValueToJSON(x.Values[i]))
		}
		return out
	default:
		s, _ := sjson.Set(`{"s":0}`, "s", v.String())
		return s[len(`{"s":`) : len(s)-1]
	}
}

// escapeKey protects dots and other sjson path metacharacters in dict keys.
func escapeKey(k string) string {
	var sb strings.Builder
	for _, r := range k {
		switch r {
		case '.', '|', '#', '@', '*', '?', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Prologue synthesizes the foreign-language variable declarations that
// surface the given bindings inside a block: integers,
// floats, and booleans become native literals, strings become quoted
// literals with language-appropriate escaping, and compound values become
// JSON array/object literals.
func Prologue(lang string, bound []Binding) string {
	var sb strings.Builder
	for _, b := range bound {
		switch lang {
		case "python":
			sb.WriteString(b.Name + " = " + pythonLiteral(b.Value) + "\n")
		case "javascript":
			sb.WriteString("const " + b.Name + " = " + jsLiteral(b.Value) + ";\n")
		case "ruby":
			sb.WriteString(b.Name + " = " + rubyLiteral(b.Value) + "\n")
		case "bash":
			sb.WriteString(b.Name + "=" + bashLiteral(b.Value) + "\n")
		}
	}
	return sb.String()
}

// pythonLiteral renders a Value as Python source. JSON is already valid
// Python for lists, dicts, and strings; booleans and null differ.
func pythonLiteral(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.BoolValue:
		if x.Value {
			return "True"
		}
		return "False"
	case *runtime.NullValue:
		return "None"
	case *runtime.ListValue, *runtime.DictValue, *runtime.StructValue:
		return pythonizeJSON(ValueToJSON(v))
	default:
		return ValueToJSON(v)
	}
}

// pythonizeJSON rewrites JSON true/false/null keywords into their Python
// spellings, skipping over string literals.
func pythonizeJSON(js string) string {
	var sb strings.Builder
	inString := false
	for i := 0; i < len(js); i++ {
		c := js[i]
		if inString {
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(js) {
				i++
				sb.WriteByte(js[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			sb.WriteByte(c)
		case strings.HasPrefix(js[i:], "true"):
			sb.WriteString("True")
			i += 3
		case strings.HasPrefix(js[i:], "false"):
			sb.WriteString("False")
			i += 4
		case strings.HasPrefix(js[i:], "null"):
			sb.WriteString("None")
			i += 3
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func jsLiteral(v runtime.Value) string {
	// JSON is a syntactic subset of JavaScript.
	return ValueToJSON(v)
}

func rubyLiteral(v runtime.Value) string {
	switch v.(type) {
	case *runtime.NullValue:
		return "nil"
	case *runtime.ListValue, *runtime.DictValue, *runtime.StructValue:
		// Ruby parses JSON at runtime so hashes keep string keys.
		return fmt.Sprintf("JSON.parse(%s)", rubySingleQuote(ValueToJSON(v)))
	default:
		return ValueToJSON(v)
	}
}

func rubySingleQuote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, "\\", "\\\\"), "'", "\\'") + "'"
}

// bashLiteral renders a Value as a shell word. Compound values are passed
// as single-quoted JSON text for the script to process with its own tools.
func bashLiteral(v runtime.Value) string {
	switch x := v.(type) {
	case *runtime.StringValue:
		return shellQuote(x.Value)
	case *runtime.IntValue, *runtime.FloatValue:
		return v.String()
	case *runtime.BoolValue:
		if x.Value {
			return "true"
		}
		return "false"
	case *runtime.NullValue:
		return "''"
	default:
		return shellQuote(ValueToJSON(v))
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
