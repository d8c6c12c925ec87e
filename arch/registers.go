package arch

// Register indices.
const (
	IP = 0 // Instruction pointer.
	RB = 1 // Relative base.
)

// RegisterName returns the name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	switch n {
	case IP:
		return "ip"
	case RB:
		return "rb"
	}
	return ""
}
