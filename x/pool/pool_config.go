package pool

import (
	"fmt"

	"github.com/m3db/m3/src/x/instrument"
)

// ObjectPoolWatermarkConfiguration contains watermark configuration for pools.
type ObjectPoolWatermarkConfiguration struct {
	// Fraction of the pool size at or below which Get refills, if zero none.
	RefillLowWatermark float64 `yaml:"low" validate:"min=0.0,max=1.0"`

	// Fraction of the pool size a refill stops at.
	RefillHighWatermark float64 `yaml:"high" validate:"min=0.0,max=1.0"`
}

// ObjectPoolConfiguration contains pool configuration.
type ObjectPoolConfiguration struct {
	// Maximum number of idle objects, defaults to 4096.
	Size *int `yaml:"size"`

	Watermark ObjectPoolWatermarkConfiguration `yaml:"watermark"`
}

// Validate checks the configuration is usable.
func (c *ObjectPoolConfiguration) Validate() error {
	if c.Size != nil && *c.Size < 0 {
		return fmt.Errorf("invalid pool size %d", *c.Size)
	}
	low, high := c.Watermark.RefillLowWatermark, c.Watermark.RefillHighWatermark
	if low < 0 || low > 1 || high < 0 || high > 1 {
		return fmt.Errorf("pool watermarks must be within [0, 1], got low=%v high=%v", low, high)
	}
	if low > 0 && high < low {
		return fmt.Errorf("pool high watermark %v is below low watermark %v", high, low)
	}
	return nil
}

// NewPoolOptions creates a new set of pool options.
func (c *ObjectPoolConfiguration) NewPoolOptions(
	instrumentOpts instrument.Options,
) *ObjectPoolOptions {
	opts := NewObjectPoolOptions().
		SetInstrumentOptions(instrumentOpts).
		SetRefillLowWatermark(c.Watermark.RefillLowWatermark).
		SetRefillHighWatermark(c.Watermark.RefillHighWatermark)
	if c.Size != nil {
		opts = opts.SetSize(*c.Size)
	}
	return opts
}

// NewConfiguredObjectPool validates the configuration and returns an
// initialized pool.
func NewConfiguredObjectPool[T any](
	cfg *ObjectPoolConfiguration,
	instrumentOpts instrument.Options,
	alloc func() *T,
) (*ObjectPool[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := NewObjectPool[T](cfg.NewPoolOptions(instrumentOpts))
	p.Init(alloc)
	return p, nil
}
