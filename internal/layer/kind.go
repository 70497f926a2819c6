package layer

import "fmt"

// Kind selects the layer variant.
type Kind int

const (
	// KindFlat layers (water, parks, surface) have positions only.
	KindFlat Kind = iota
	// KindBuilding layers carry a normal per vertex.
	KindBuilding
)

func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindBuilding:
		return "building"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
