package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/naab-lang/naab/internal/runtime"
)

// installBuiltins binds the host-implemented functions the dispatch
// contract requires. The concrete standard
// library beyond these is out of core scope.
func (in *Interpreter) installBuiltins() {
	native := func(name string, fn func(args []runtime.Value) (runtime.Value, error)) {
		in.globals.ForceDefine(name, &runtime.NativeValue{Name: name, Fn: fn})
	}

	native("print", func(args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(in.out, strings.Join(parts, " "))
		return runtime.Null, nil
	})

	native("len", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("len expects 1 argument, got %d", len(args))
		}
		switch x := args[0].(type) {
		case *runtime.StringValue:
			return runtime.NewInt(int64(len([]rune(x.Value)))), nil
		case *runtime.ListValue:
			return runtime.NewInt(int64(len(x.Elems))), nil
		case *runtime.DictValue:
			return runtime.NewInt(int64(len(x.Entries))), nil
		}
		return nil, fmt.Errorf("len not defined on %s", args[0].Kind())
	})

	native("range", func(args []runtime.Value) (runtime.Value, error) {
		switch len(args) {
		case 1:
			end, ok := args[0].(*runtime.IntValue)
			if !ok {
				return nil, fmt.Errorf("range bounds must be ints")
			}
			return runtime.NewRange(0, end.Value), nil
		case 2:
			start, ok1 := args[0].(*runtime.IntValue)
			end, ok2 := args[1].(*runtime.IntValue)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("range bounds must be ints")
			}
			return runtime.NewRange(start.Value, end.Value), nil
		}
		return nil, fmt.Errorf("range expects 1 or 2 arguments, got %d", len(args))
	})

	native("push", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("push expects 2 arguments, got %d", len(args))
		}
		list, ok := args[0].(*runtime.ListValue)
		if !ok {
			return nil, fmt.Errorf("push expects a List, got %s", args[0].Kind())
		}
		list.Elems = append(list.Elems, args[1])
		return list, nil
	})

	native("keys", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("keys expects 1 argument, got %d", len(args))
		}
		dict, ok := args[0].(*runtime.DictValue)
		if !ok {
			return nil, fmt.Errorf("keys expects a Dict, got %s", args[0].Kind())
		}
		ks := dict.Keys()
		sort.Strings(ks)
		elems := make([]runtime.Value, len(ks))
		for i, k := range ks {
			elems[i] = runtime.NewString(k)
		}
		return runtime.NewList(elems), nil
	})

	native("contains", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("contains expects 2 arguments, got %d", len(args))
		}
		switch x := args[0].(type) {
		case *runtime.ListValue:
			for _, e := range x.Elems {
				if runtime.Equal(e, args[1]) {
					return runtime.TrueValue, nil
				}
			}
			return runtime.FalseValue, nil
		case *runtime.DictValue:
			k, ok := args[1].(*runtime.StringValue)
			if !ok {
				return nil, fmt.Errorf("dict membership requires a string key")
			}
			_, found := x.Entries[k.Value]
			return runtime.NewBool(found), nil
		case *runtime.StringValue:
			s, ok := args[1].(*runtime.StringValue)
			if !ok {
				return nil, fmt.Errorf("string membership requires a string")
			}
			return runtime.NewBool(strings.Contains(x.Value, s.Value)), nil
		}
		return nil, fmt.Errorf("contains not defined on %s", args[0].Kind())
	})

	native("str", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("str expects 1 argument, got %d", len(args))
		}
		return runtime.NewString(args[0].String()), nil
	})

	native("int", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("int expects 1 argument, got %d", len(args))
		}
		switch x := args[0].(type) {
		case *runtime.IntValue:
			return x, nil
		case *runtime.FloatValue:
			return runtime.NewInt(int64(x.Value)), nil
		case *runtime.StringValue:
			n, err := strconv.ParseInt(strings.TrimSpace(x.Value), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to int", x.Value)
			}
			return runtime.NewInt(n), nil
		case *runtime.BoolValue:
			if x.Value {
				return runtime.NewInt(1), nil
			}
			return runtime.NewInt(0), nil
		}
		return nil, fmt.Errorf("cannot convert %s to int", args[0].Kind())
	})

	native("float", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("float expects 1 argument, got %d", len(args))
		}
		switch x := args[0].(type) {
		case *runtime.FloatValue:
			return x, nil
		case *runtime.IntValue:
			return runtime.NewFloat(float64(x.Value)), nil
		case *runtime.StringValue:
			f, err := strconv.ParseFloat(strings.TrimSpace(x.Value), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", x.Value)
			}
			return runtime.NewFloat(f), nil
		}
		return nil, fmt.Errorf("cannot convert %s to float", args[0].Kind())
	})

	native("type", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("type expects 1 argument, got %d", len(args))
		}
		return runtime.NewString(strings.ToLower(args[0].Kind())), nil
	})

	native("copy", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("copy expects 1 argument, got %d", len(args))
		}
		return runtime.DeepCopy(args[0]), nil
	})

	// Manual cycle-collection trigger; returns the number
	// of unreachable values swept.
	native("gc_collect", func(args []runtime.Value) (runtime.Value, error) {
		return runtime.NewInt(int64(in.Collect())), nil
	})
}
