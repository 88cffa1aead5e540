package ref

import (
	"github.com/m3db/m3/src/x/instrument"
	"github.com/uber-go/tally"
)

// DestroyErrorFn is called when destroying a managed object returns an error.
type DestroyErrorFn func(err error)

// Options provide a set of options for shared and weak references.
type Options struct {
	instrumentOpts instrument.Options
	destroyErrorFn DestroyErrorFn
	metrics        refMetrics
}

// NewOptions create a new set of options.
func NewOptions() *Options {
	o := &Options{
		instrumentOpts: instrument.NewOptions(),
	}
	o.metrics = newRefMetrics(o.instrumentOpts.MetricsScope())
	return o
}

// SetInstrumentOptions sets the instrument options.
func (o *Options) SetInstrumentOptions(v instrument.Options) *Options {
	opts := *o
	opts.instrumentOpts = v
	opts.metrics = newRefMetrics(v.MetricsScope())
	return &opts
}

// InstrumentOptions returns the instrument options.
func (o *Options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

// SetDestroyErrorFn sets the function invoked when a deleter fails. The error
// is always logged regardless.
func (o *Options) SetDestroyErrorFn(v DestroyErrorFn) *Options {
	opts := *o
	opts.destroyErrorFn = v
	return &opts
}

// DestroyErrorFn returns the function invoked when a deleter fails.
func (o *Options) DestroyErrorFn() DestroyErrorFn {
	return o.destroyErrorFn
}

var defaultOptions = NewOptions()

func optionsOrDefault(opts *Options) *Options {
	if opts == nil {
		return defaultOptions
	}
	return opts
}

type refMetrics struct {
	blocksCreated     tally.Counter
	blocksFreed       tally.Counter
	objectsDestroyed  tally.Counter
	destroyErrors     tally.Counter
	promotionFailures tally.Counter
}

func newRefMetrics(scope tally.Scope) refMetrics {
	return refMetrics{
		blocksCreated:     scope.Counter("control-block-created"),
		blocksFreed:       scope.Counter("control-block-freed"),
		objectsDestroyed:  scope.Counter("object-destroyed"),
		destroyErrors:     scope.Counter("object-destroy-errors"),
		promotionFailures: scope.Counter("promotion-failures"),
	}
}
