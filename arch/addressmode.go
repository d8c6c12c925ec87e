package arch

import "strconv"

// AddressMode defines instruction parameter address modes.
type AddressMode byte

// Known address modes.
const (
	Position  AddressMode = 0 // x = mem[v]
	Immediate AddressMode = 1 // x = v
	Relative  AddressMode = 2 // x = mem[rb+v]
)

func (m AddressMode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}
