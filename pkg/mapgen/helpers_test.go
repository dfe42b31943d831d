package mapgen

import (
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/constraint"
)

func constraintFixed(floor int, typ runmap.NodeType) constraint.FixedFloor {
	return constraint.FixedFloor{Floor: floor, Type: typ}
}
