package packing

// BoxesIntersect reports whether a and b overlap once each is grown by
// hGap on X and Z and by vGap on Y. Boxes that only touch after the
// growth do not intersect.
func BoxesIntersect(a, b Box, hGap, vGap float64) bool {
	return a.X-hGap < b.X+b.Width+hGap &&
		a.X+a.Width+hGap > b.X-hGap &&
		a.Y-vGap < b.Y+b.Height+vGap &&
		a.Y+a.Height+vGap > b.Y-vGap &&
		a.Z-hGap < b.Z+b.Depth+hGap &&
		a.Z+a.Depth+hGap > b.Z-hGap
}

// InsideContainer reports whether b fits in c keeping hGap from the side
// walls. The floor and ceiling get no clearance.
func InsideContainer(b Box, c Container, hGap float64) bool {
	ox, oy, oz := c.Origin()
	return b.X-hGap >= ox &&
		b.X+b.Width+hGap <= ox+c.Length &&
		b.Y >= oy &&
		b.Y+b.Height <= oy+c.Height &&
		b.Z-hGap >= oz &&
		b.Z+b.Depth+hGap <= oz+c.Width
}

// Origin returns the minimum corner of the container. X and Z are centred
// on the container; Y starts at the floor.
func (c Container) Origin() (x, y, z float64) {
	return -c.Length / 2, 0, -c.Width / 2
}

// Volume returns the interior volume, or 0 if any dimension is not positive.
func (c Container) Volume() float64 {
	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 {
		return 0
	}
	return c.Length * c.Width * c.Height
}

type orientation struct {
	width, height, depth float64
}

// Orientations lists the six axis-aligned arrangements of (w, h, d) in
// search order. The first entry is the natural orientation.
func Orientations(w, h, d float64) [6][3]float64 {
	var out [6][3]float64
	for i, o := range orientationsOf(w, h, d) {
		out[i] = [3]float64{o.width, o.height, o.depth}
	}
	return out
}

func orientationsOf(w, h, d float64) [6]orientation {
	return [6]orientation{
		{w, h, d},
		{d, h, w},
		{w, d, h},
		{h, w, d},
		{d, w, h},
		{h, d, w},
	}
}
