package api

import (
	"time"

	"github.com/eugenenazirov/container-packer/internal/packing"
)

type packRequest struct {
	Items     []packing.ItemSpec `json:"items"`
	Container *packing.Container `json:"container,omitempty"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type placedBoxResponse struct {
	packing.PlacedBox
	Center point  `json:"center"`
	Color  string `json:"color"`
}

type unplacedBoxResponse struct {
	packing.UnplacedBox
	Center point  `json:"center"`
	Color  string `json:"color"`
}

type statsResponse struct {
	packing.Stats
	Utilization float64 `json:"utilization"`
}

type packResponse struct {
	Container         packing.Container     `json:"container"`
	Placed            []placedBoxResponse   `json:"placed"`
	Unplaced          []unplacedBoxResponse `json:"unplaced"`
	Dropped           int                   `json:"dropped"`
	TotalUnits        int                   `json:"totalUnits"`
	Stats             statsResponse         `json:"stats"`
	CalculationTimeMs int64                 `json:"calculationTimeMs"`
}

func newPackResponse(c packing.Container, res packing.Result, stats packing.Stats, elapsed time.Duration) packResponse {
	placed := make([]placedBoxResponse, 0, len(res.Placed))
	for _, box := range res.Placed {
		x, y, z := box.Center()
		placed = append(placed, placedBoxResponse{
			PlacedBox: box,
			Center:    point{X: x, Y: y, Z: z},
			Color:     packing.Color(box.SourceID),
		})
	}
	unplaced := make([]unplacedBoxResponse, 0, len(res.Unplaced))
	for _, box := range res.Unplaced {
		x, y, z := box.Center()
		unplaced = append(unplaced, unplacedBoxResponse{
			UnplacedBox: box,
			Center:      point{X: x, Y: y, Z: z},
			Color:       packing.Color(box.SourceID),
		})
	}

	return packResponse{
		Container:         c,
		Placed:            placed,
		Unplaced:          unplaced,
		Dropped:           res.Dropped,
		TotalUnits:        len(placed) + len(unplaced) + res.Dropped,
		Stats:             statsResponse{Stats: stats, Utilization: stats.Utilization()},
		CalculationTimeMs: elapsed.Milliseconds(),
	}
}

type itemsResponse struct {
	Items      []packing.ItemSpec `json:"items"`
	TotalUnits int                `json:"totalUnits"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type containerResponse struct {
	packing.Container
	Message string `json:"message,omitempty"`
}

type importResponse struct {
	Items    []packing.ItemSpec `json:"items,omitempty"`
	Imported int                `json:"imported"`
	Errors   []string           `json:"errors,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
	Error    string             `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
