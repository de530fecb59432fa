package gc

import (
	"testing"

	"github.com/naab-lang/naab/internal/runtime"
)

func track(c *Collector, env *runtime.Environment, vs ...runtime.Value) {
	for _, v := range vs {
		c.TrackAllocation(v, env)
	}
}

func TestCollectKeepsReachable(t *testing.T) {
	c := New(0)
	env := runtime.NewEnvironment()

	list := runtime.NewList([]runtime.Value{runtime.NewInt(1)})
	env.ForceDefine("l", list)
	track(c, env, list)

	if swept := c.Collect(env); swept != 0 {
		t.Fatalf("swept %d reachable value(s)", swept)
	}
	if len(list.Elems) != 1 {
		t.Fatal("reachable list was cleared")
	}
}

func TestCollectBreaksUnreachableCycle(t *testing.T) {
	c := New(0)
	env := runtime.NewEnvironment()

	a := runtime.NewList(nil)
	b := runtime.NewList([]runtime.Value{a})
	a.Elems = append(a.Elems, b)
	env.ForceDefine("a", a)
	track(c, env, a, b)

	// Reachable: untouched.
	if swept := c.Collect(env); swept != 0 {
		t.Fatalf("swept %d", swept)
	}

	// Drop the root; the cycle is now unreachable from any environment and
	// must have its internal references cleared.
	env.ForceDefine("a", runtime.Null)
	if swept := c.Collect(env); swept != 2 {
		t.Fatalf("swept = %d, want 2", swept)
	}
	if len(a.Elems) != 0 || len(b.Elems) != 0 {
		t.Fatal("cycle members not cleared")
	}
}

func TestCollectFollowsNestedPayloadsAndClosures(t *testing.T) {
	c := New(0)
	env := runtime.NewEnvironment()

	closureEnv := runtime.NewEnvironment()
	inner := runtime.NewList([]runtime.Value{runtime.NewInt(7)})
	closureEnv.ForceDefine("captured", inner)
	fn := &runtime.FunctionValue{Name: "f", Env: closureEnv}

	dict := runtime.NewDict()
	dict.Set("fn", fn)
	env.ForceDefine("d", dict)
	track(c, env, dict, fn, inner)

	if swept := c.Collect(env); swept != 0 {
		t.Fatalf("swept %d value(s) reachable through closure env", swept)
	}
	if len(inner.Elems) != 1 {
		t.Fatal("value reachable via captured environment was cleared")
	}
}

func TestRootStackCoversCallerFrames(t *testing.T) {
	c := New(0)
	caller := runtime.NewEnvironment()
	callerList := runtime.NewList([]runtime.Value{runtime.NewInt(1)})
	caller.ForceDefine("kept", callerList)
	track(c, caller, callerList)

	// A callee frame with an unrelated parent: without the pushed root the
	// caller's list would be invisible to the tracer.
	callee := runtime.NewEnvironment().Child()
	c.PushRoot(caller)
	defer c.PopRoot()

	if swept := c.Collect(callee); swept != 0 {
		t.Fatalf("swept %d caller-frame value(s)", swept)
	}
	if len(callerList.Elems) != 1 {
		t.Fatal("caller-frame value cleared")
	}
}

func TestAutomaticThreshold(t *testing.T) {
	c := New(3)
	env := runtime.NewEnvironment()

	// Two garbage lists, then a third allocation trips the threshold.
	track(c, env, runtime.NewList(nil), runtime.NewList(nil))
	if c.Live() != 2 {
		t.Fatalf("live = %d", c.Live())
	}
	kept := runtime.NewList([]runtime.Value{runtime.NewInt(1)})
	env.ForceDefine("kept", kept)
	c.TrackAllocation(kept, env)

	if c.Live() != 1 {
		t.Fatalf("live after automatic collect = %d, want 1", c.Live())
	}
}

func TestZeroThresholdDisablesAutomaticRuns(t *testing.T) {
	c := New(0)
	env := runtime.NewEnvironment()
	for i := 0; i < 5000; i++ {
		track(c, env, runtime.NewList(nil))
	}
	if c.Live() != 5000 {
		t.Fatalf("live = %d, automatic collection ran with threshold 0", c.Live())
	}
}
