package packing

import "math"

// ComputeStats sums item volume with hGap padding on length and width only,
// and spreads it over the container cross-section to estimate how far along
// the container it would reach. It ignores actual placements.
func ComputeStats(items []ItemSpec, c Container, hGap float64) Stats {
	stats := Stats{ContainerTotalVolume: c.Volume()}
	if len(items) == 0 {
		return stats
	}

	total := 0.0
	for _, item := range items {
		length := item.Length / cmPerMetre
		width := item.Width / cmPerMetre
		height := item.Height / cmPerMetre
		if length > 0 {
			length += 2 * hGap
		}
		if width > 0 {
			width += 2 * hGap
		}
		total += length * width * height * float64(item.Quantity)
	}
	stats.TotalItemVolume = total

	fill := 0.0
	if c.Height > 0 && c.Width > 0 {
		fill = total / (c.Height * c.Width)
	}
	fill = math.Min(fill, c.Length)
	if math.IsNaN(fill) || fill < 0 {
		fill = 0
	}
	stats.VolumeFillLength = fill
	return stats
}

// Utilization returns the share of the container volume taken by item
// volume, in [0, 1]. It is 0 for an empty container.
func (s Stats) Utilization() float64 {
	if s.ContainerTotalVolume <= 0 {
		return 0
	}
	return math.Min(1, s.TotalItemVolume/s.ContainerTotalVolume)
}
