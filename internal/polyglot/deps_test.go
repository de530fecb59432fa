package polyglot

import (
	"sync/atomic"
	"testing"

	"github.com/naab-lang/naab/internal/runtime"
)

func TestPlanIndependentBlocksShareOneStage(t *testing.T) {
	blocks := []Block{
		{Index: 0, Reads: []string{"a"}, Writes: []string{"x"}},
		{Index: 1, Reads: []string{"b"}, Writes: []string{"y"}},
		{Index: 2, Reads: []string{"c"}, Writes: []string{"z"}},
	}
	groups := Plan(blocks)
	if len(groups) != 1 {
		t.Fatalf("stages = %d, want 1", len(groups))
	}
	if len(groups[0]) != 3 {
		t.Fatalf("stage size = %d, want 3", len(groups[0]))
	}
}

func TestPlanHazards(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
	}{
		{"RAW", []Block{
			{Index: 0, Writes: []string{"x"}},
			{Index: 1, Reads: []string{"x"}},
		}},
		{"WAW", []Block{
			{Index: 0, Writes: []string{"x"}},
			{Index: 1, Writes: []string{"x"}},
		}},
		{"WAR", []Block{
			{Index: 0, Reads: []string{"x"}},
			{Index: 1, Writes: []string{"x"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Plan(tt.blocks)
			if len(groups) != 2 {
				t.Fatalf("stages = %d, want 2", len(groups))
			}
			if groups[0][0].Index != 0 || groups[1][0].Index != 1 {
				t.Fatal("source order not preserved across stages")
			}
		})
	}
}

func TestPlanChainAndIndependent(t *testing.T) {
	// 0 -> 1 (RAW on x); 2 independent of both.
	blocks := []Block{
		{Index: 0, Reads: []string{"a"}, Writes: []string{"x"}},
		{Index: 1, Reads: []string{"x"}, Writes: []string{"y"}},
		{Index: 2, Reads: []string{"b"}, Writes: []string{"z"}},
	}
	groups := Plan(blocks)
	if len(groups) != 2 {
		t.Fatalf("stages = %d, want 2", len(groups))
	}
	if len(groups[0]) != 2 {
		t.Fatalf("first stage = %d blocks, want 2 (block 0 and block 2)", len(groups[0]))
	}
}

func TestRunGroupsOrderAndConcurrency(t *testing.T) {
	blocks := []Block{
		{Index: 0}, {Index: 1}, {Index: 2},
	}
	groups := Plan(blocks)

	// Barrier: every worker must be running at once before any returns,
	// which only completes if the group was dispatched concurrently.
	var entered int32
	allIn := make(chan struct{})
	results := RunGroups(groups, func(b Block) (runtime.Value, error) {
		if atomic.AddInt32(&entered, 1) == 3 {
			close(allIn)
		}
		<-allIn
		return runtime.NewInt(int64(b.Index * 10)), nil
	})

	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("results out of source order: %v", results)
		}
		if r.Value.(*runtime.IntValue).Value != int64(i*10) {
			t.Fatalf("result %d = %v", i, r.Value)
		}
	}
}
