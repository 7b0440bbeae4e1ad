package packing

// ItemSpec describes one logical item type supplied by the item editor.
// Dimensions are in centimetres.
type ItemSpec struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// Container holds the interior dimensions of the shipping container in metres.
type Container struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Unit is one physical box expanded from an ItemSpec. Width runs along the
// container length (X), Height is vertical (Y) and Depth runs along the
// container width (Z). All values are metres.
type Unit struct {
	SourceID      string  `json:"id"`
	Name          string  `json:"name"`
	ItemIndex     int     `json:"itemIndex"`
	InstanceIndex int     `json:"instanceIndex"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Depth         float64 `json:"depth"`
	Volume        float64 `json:"volume"`
}

// Box is an axis-aligned cuboid given by its minimum corner and extents.
type Box struct {
	X, Y, Z              float64
	Width, Height, Depth float64
}

// PlacedBox is a unit resolved inside the container. X, Y and Z are the
// minimum corner; Width, Height and Depth are the orientation actually used.
type PlacedBox struct {
	Unit
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box returns the cuboid occupied by p.
func (p PlacedBox) Box() Box {
	return Box{X: p.X, Y: p.Y, Z: p.Z, Width: p.Width, Height: p.Height, Depth: p.Depth}
}

// Center returns the centre point of p.
func (p PlacedBox) Center() (x, y, z float64) {
	return p.X + p.Width/2, p.Y + p.Height/2, p.Z + p.Depth/2
}

// UnplacedBox is a unit the search could not seat, parked in the holding
// area beside the container. Like PlacedBox, X, Y and Z are the minimum corner.
type UnplacedBox struct {
	Unit
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box returns the cuboid occupied by u in the holding area.
func (u UnplacedBox) Box() Box {
	return Box{X: u.X, Y: u.Y, Z: u.Z, Width: u.Width, Height: u.Height, Depth: u.Depth}
}

// Center returns the centre point of u.
func (u UnplacedBox) Center() (x, y, z float64) {
	return u.X + u.Width/2, u.Y + u.Height/2, u.Z + u.Depth/2
}

// Result partitions every expanded unit into placed, unplaced or dropped.
type Result struct {
	Placed   []PlacedBox
	Unplaced []UnplacedBox
	// Dropped counts units skipped because a dimension was below the skip
	// threshold after conversion.
	Dropped int
}

// Stats is the coarse volume summary shown next to the scene.
type Stats struct {
	TotalItemVolume      float64 `json:"totalItemVolume"`
	VolumeFillLength     float64 `json:"volumeFillLength"`
	ContainerTotalVolume float64 `json:"containerTotalVolume"`
}

// Packer describes the behaviour required from a container packer.
type Packer interface {
	Pack(items []ItemSpec, container Container) Result
	Stats(items []ItemSpec, container Container) Stats
}
