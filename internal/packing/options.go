package packing

const (
	defaultGridStep      = 0.05
	defaultHorizontalGap = 0.01
	defaultMinDimension  = 0.05
	defaultSkipBelow     = 0.01
	defaultHoldingOffset = 1.0
	defaultHoldingGap    = 0.1
	cmPerMetre           = 100
)

// Options tunes the greedy search. All lengths are metres.
type Options struct {
	// GridStep is the resolution of the fallback grid search.
	GridStep float64
	// HorizontalGap is the clearance kept on X and Z between boxes and walls.
	HorizontalGap float64
	// VerticalGap is the clearance kept on Y between boxes.
	VerticalGap float64
	// MinDimension floors every converted unit dimension.
	MinDimension float64
	// SkipBelow drops units with any dimension under this value after flooring.
	SkipBelow float64
	// HoldingOffset is the distance from the container end wall to the unplaced stack.
	HoldingOffset float64
	// HoldingGap separates consecutive boxes in the unplaced stack.
	HoldingGap float64
}

// DefaultOptions returns the tuning used by the shipping demo.
func DefaultOptions() Options {
	return Options{
		GridStep:      defaultGridStep,
		HorizontalGap: defaultHorizontalGap,
		VerticalGap:   0,
		MinDimension:  defaultMinDimension,
		SkipBelow:     defaultSkipBelow,
		HoldingOffset: defaultHoldingOffset,
		HoldingGap:    defaultHoldingGap,
	}
}

// Option configures a Packer.
type Option func(*Options)

// WithGridStep overrides the grid search resolution. Non-positive values are ignored.
func WithGridStep(step float64) Option {
	return func(o *Options) {
		if step > 0 {
			o.GridStep = step
		}
	}
}

// WithHorizontalGap overrides the X/Z clearance. Negative values are ignored.
func WithHorizontalGap(gap float64) Option {
	return func(o *Options) {
		if gap >= 0 {
			o.HorizontalGap = gap
		}
	}
}

// WithMinDimension overrides the per-axis floor applied to converted units.
func WithMinDimension(minimum float64) Option {
	return func(o *Options) {
		if minimum >= 0 {
			o.MinDimension = minimum
		}
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if !(o.GridStep > 0) {
		o.GridStep = def.GridStep
	}
	if o.HorizontalGap < 0 {
		o.HorizontalGap = def.HorizontalGap
	}
	if o.VerticalGap < 0 {
		o.VerticalGap = 0
	}
	if o.MinDimension < 0 {
		o.MinDimension = def.MinDimension
	}
	if o.SkipBelow < 0 {
		o.SkipBelow = def.SkipBelow
	}
	if o.HoldingGap < 0 {
		o.HoldingGap = def.HoldingGap
	}
	return o
}
