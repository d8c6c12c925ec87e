package cpu

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// denseSlack is how far past the end of the dense region a write may land
// and still grow it. Writes further out are kept in the sparse map.
const denseSlack = 1 << 16

// Memory defines the system's memory bank: a zero-filled sequence of cells
// that grows as addresses are written.
type Memory struct {
	cells  []int64
	sparse map[int64]int64
}

// NewMemory creates a memory bank holding a copy of program.
func NewMemory(program []int64) *Memory {
	return &Memory{cells: slices.Clone(program)}
}

// Read returns the value at the given address. Unwritten cells read as 0.
func (m *Memory) Read(addr int64) (int64, error) {
	if addr < 0 {
		return 0, errors.Wrapf(ErrOutOfBounds, "read at %d", addr)
	}
	if addr < int64(len(m.cells)) {
		return m.cells[addr], nil
	}
	return m.sparse[addr], nil
}

// Write sets the value at the given address, growing memory as needed.
func (m *Memory) Write(addr, value int64) error {
	if addr < 0 {
		return errors.Wrapf(ErrOutOfBounds, "write at %d", addr)
	}

	n := int64(len(m.cells))
	switch {
	case addr < n:
	case addr < n+denseSlack:
		m.grow(addr + 1)
	default:
		if m.sparse == nil {
			m.sparse = make(map[int64]int64)
		}
		m.sparse[addr] = value
		return nil
	}

	m.cells[addr] = value
	return nil
}

// Len returns one past the highest address that holds data.
func (m *Memory) Len() int64 {
	n := int64(len(m.cells))
	for addr := range m.sparse {
		if addr >= n {
			n = addr + 1
		}
	}
	return n
}

// Cells returns a copy of the contiguous region starting at address 0.
// Sparse cells far beyond it are not included.
func (m *Memory) Cells() []int64 {
	return slices.Clone(m.cells)
}

// grow extends the dense region to size cells and moves any sparse cells it
// now covers into it.
func (m *Memory) grow(size int64) {
	if size <= int64(cap(m.cells)) {
		m.cells = m.cells[:size]
	} else {
		c := 2 * int64(cap(m.cells))
		if c < size {
			c = size
		}
		cells := make([]int64, size, c)
		copy(cells, m.cells)
		m.cells = cells
	}

	for addr, v := range m.sparse {
		if addr < size {
			m.cells[addr] = v
			delete(m.sparse, addr)
		}
	}
}
