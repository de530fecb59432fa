package polyglot

import (
	"sort"
	"sync"

	"github.com/naab-lang/naab/internal/runtime"
)

// Result is the outcome of one block's execution, tagged with its source
// position so the merge back into the live environment preserves source
// order.
type Result struct {
	Index int
	Value runtime.Value
	Err   error
}

// RunGroups executes the planned stages: blocks within a stage run
// concurrently on their own goroutines, stages run strictly in order, and
// the collected results come back sorted by source index. Each block's fn
// receives only the block descriptor; the caller is responsible for handing
// workers immutable environment snapshots — nothing in this
// package touches the live environment.
func RunGroups(groups [][]Block, fn func(Block) (runtime.Value, error)) []Result {
	var results []Result
	for _, group := range groups {
		if len(group) == 1 {
			v, err := fn(group[0])
			results = append(results, Result{Index: group[0].Index, Value: v, Err: err})
			continue
		}

		stage := make([]Result, len(group))
		var wg sync.WaitGroup
		for i, b := range group {
			wg.Add(1)
			go func(i int, b Block) {
				defer wg.Done()
				v, err := fn(b)
				stage[i] = Result{Index: b.Index, Value: v, Err: err}
			}(i, b)
		}
		wg.Wait()
		results = append(results, stage...)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}
