package ref

import (
	"github.com/m3db/m3/src/x/instrument"
	"github.com/uber-go/tally"
)

type trackedObject struct {
	name      string
	destroyed *int
}

func (o *trackedObject) Finalize() { *o.destroyed++ }

func newTrackedObject(name string) (*trackedObject, *int) {
	var destroyed int
	return &trackedObject{name: name, destroyed: &destroyed}, &destroyed
}

func newTestOptions() (*Options, tally.TestScope) {
	scope := tally.NewTestScope("", nil)
	opts := NewOptions().SetInstrumentOptions(instrument.NewOptions().SetMetricsScope(scope))
	return opts, scope
}

func counterValue(scope tally.TestScope, name string) int64 {
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == name {
			return c.Value()
		}
	}
	return 0
}

func blocksFreed(scope tally.TestScope) int64 {
	return counterValue(scope, "control-block-freed")
}
