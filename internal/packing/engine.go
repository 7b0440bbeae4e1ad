package packing

import (
	"cmp"
	"math"
	"slices"
)

// floorSnap is how close to the floor a grid candidate must be to count
// as resting on it.
const floorSnap = 0.01

type greedyPacker struct {
	opts Options
}

// New creates a Packer running the largest-first greedy search.
func New(opts ...Option) Packer {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &greedyPacker{opts: o.normalized()}
}

func (p *greedyPacker) Pack(items []ItemSpec, container Container) Result {
	return Pack(items, container, p.opts)
}

func (p *greedyPacker) Stats(items []ItemSpec, container Container) Stats {
	return ComputeStats(items, container, p.opts.HorizontalGap)
}

// Pack expands items into units, seats them largest first and lays out
// whatever does not fit beside the container. It is a pure function of its
// arguments.
func Pack(items []ItemSpec, container Container, opts Options) Result {
	opts = opts.normalized()
	units, dropped := expandUnits(items, opts)

	placed := make([]PlacedBox, 0, len(units))
	var pending []Unit

	if container.finite() {
		s := newSearch(container, opts)
		for _, u := range units {
			if box, ok := s.place(u, placed); ok {
				placed = append(placed, box)
				continue
			}
			pending = append(pending, u)
		}
	} else {
		pending = units
	}

	return Result{
		Placed:   placed,
		Unplaced: layoutUnplaced(pending, container, opts),
		Dropped:  dropped,
	}
}

// expandUnits turns every item into Quantity units, converted to metres and
// sorted by descending volume. Ties keep input order.
func expandUnits(items []ItemSpec, opts Options) ([]Unit, int) {
	var (
		units   []Unit
		dropped int
	)
	for itemIndex, item := range items {
		for i := 0; i < item.Quantity; i++ {
			w := math.Max(opts.MinDimension, item.Length/cmPerMetre)
			h := math.Max(opts.MinDimension, item.Height/cmPerMetre)
			d := math.Max(opts.MinDimension, item.Width/cmPerMetre)
			if belowSkip(w, opts) || belowSkip(h, opts) || belowSkip(d, opts) {
				dropped++
				continue
			}
			units = append(units, Unit{
				SourceID:      item.ID,
				Name:          item.Name,
				ItemIndex:     itemIndex,
				InstanceIndex: i,
				Width:         w,
				Height:        h,
				Depth:         d,
				Volume:        w * h * d,
			})
		}
	}

	slices.SortStableFunc(units, func(a, b Unit) int {
		return cmp.Compare(b.Volume, a.Volume)
	})
	return units, dropped
}

func belowSkip(v float64, opts Options) bool {
	return math.IsNaN(v) || v < opts.SkipBelow
}

type search struct {
	container  Container
	opts       Options
	ox, oy, oz float64
}

func newSearch(c Container, opts Options) *search {
	ox, oy, oz := c.Origin()
	return &search{container: c, opts: opts, ox: ox, oy: oy, oz: oz}
}

// place finds the first acceptable position for u. The first box goes in
// the origin corner; later boxes try stacking before the grid scan.
func (s *search) place(u Unit, placed []PlacedBox) (PlacedBox, bool) {
	gap := s.opts.HorizontalGap
	orients := orientationsOf(u.Width, u.Height, u.Depth)

	if len(placed) == 0 {
		o := orients[0]
		b := Box{X: s.ox + gap, Y: s.oy, Z: s.oz + gap, Width: o.width, Height: o.height, Depth: o.depth}
		if InsideContainer(b, s.container, gap) {
			return seat(u, b), true
		}
	}

	for _, existing := range placed {
		topY := existing.Y + existing.Height + s.opts.VerticalGap
		for _, o := range orients {
			b := Box{X: existing.X, Y: topY, Z: existing.Z, Width: o.width, Height: o.height, Depth: o.depth}
			if s.accepts(b, placed) {
				return seat(u, b), true
			}
		}
	}

	return s.scan(u, orients, placed)
}

// scan walks the grid X outer, Y middle, Z inner. Loop bounds use the
// unit's natural extents.
func (s *search) scan(u Unit, orients [6]orientation, placed []PlacedBox) (PlacedBox, bool) {
	c, gap, step := s.container, s.opts.HorizontalGap, s.opts.GridStep

	for x := s.ox + gap; x < s.ox+c.Length-u.Width-gap; x += step {
		for y := s.oy; y < s.oy+c.Height-u.Height; y += step {
			for z := s.oz + gap; z < s.oz+c.Width-u.Depth-gap; z += step {
				cy, ok := s.restingY(u, x, y, z, placed)
				if !ok {
					continue
				}
				for _, o := range orients {
					b := Box{X: x, Y: cy, Z: z, Width: o.width, Height: o.height, Depth: o.depth}
					if s.accepts(b, placed) {
						return seat(u, b), true
					}
				}
			}
		}
	}
	return PlacedBox{}, false
}

// restingY reports whether a unit at (x, y, z) would stand on the floor or
// exactly on top of a placed box whose footprint overlaps it.
func (s *search) restingY(u Unit, x, y, z float64, placed []PlacedBox) (float64, bool) {
	if y-s.oy < floorSnap {
		return s.oy, true
	}
	for _, p := range placed {
		if p.Y+p.Height == y &&
			p.X < x+u.Width && p.X+p.Width > x &&
			p.Z < z+u.Depth && p.Z+p.Depth > z {
			return y, true
		}
	}
	return 0, false
}

func (s *search) accepts(b Box, placed []PlacedBox) bool {
	if !InsideContainer(b, s.container, s.opts.HorizontalGap) {
		return false
	}
	for _, p := range placed {
		if BoxesIntersect(b, p.Box(), s.opts.HorizontalGap, s.opts.VerticalGap) {
			return false
		}
	}
	return true
}

func seat(u Unit, b Box) PlacedBox {
	u.Width, u.Height, u.Depth = b.Width, b.Height, b.Depth
	return PlacedBox{Unit: u, X: b.X, Y: b.Y, Z: b.Z}
}

func (c Container) finite() bool {
	for _, v := range []float64{c.Length, c.Width, c.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
