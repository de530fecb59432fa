package structs

import (
	"fmt"

	"github.com/naab-lang/naab/internal/runtime"
)

// New builds a runtime.StructValue for a concrete (already-monomorphized)
// Def, given field values keyed by declared name. Every declared field must
// be supplied; a missing field is rejected, as NAAb struct literals must be
// fully initialized.
func New(def *Def, values map[string]runtime.Value) (*runtime.StructValue, error) {
	fields := make([]string, len(def.Fields))
	vals := make([]runtime.Value, len(def.Fields))
	for i, f := range def.Fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing field %s in struct literal %s", f.Name, def.Name)
		}
		if !runtime.ValueKindMatches(f.Type, v) {
			return nil, fmt.Errorf("field %s of %s: type mismatch", f.Name, def.Name)
		}
		fields[i] = f.Name
		vals[i] = v
	}
	return runtime.NewStruct(def.Name, fields, vals), nil
}
