package utils

// BCType is the condition a subdomain imposes along one of its edges
type BCType uint16

const (
	// BCNone indicates no condition, the zero value of an unset coupling role
	BCNone BCType = iota

	BCDirichlet // Fixed value, supplied temperature
	BCNeumann   // Fixed gradient, supplied flux
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	names := map[BCType]string{
		BCNone:      "None",
		BCDirichlet: "Dirichlet",
		BCNeumann:   "Neumann",
	}

	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}
