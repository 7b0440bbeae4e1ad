package packing

// layoutUnplaced stacks units upward beside the far end of the container,
// each centred on Z = 0.
func layoutUnplaced(units []Unit, c Container, opts Options) []UnplacedBox {
	if len(units) == 0 {
		return []UnplacedBox{}
	}

	startX := c.Length/2 + opts.HoldingOffset
	y := 0.0
	out := make([]UnplacedBox, 0, len(units))
	for _, u := range units {
		out = append(out, UnplacedBox{
			Unit: u,
			X:    startX,
			Y:    y,
			Z:    -u.Depth / 2,
		})
		y += u.Height + opts.HoldingGap
	}
	return out
}
