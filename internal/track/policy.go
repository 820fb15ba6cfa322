package track

import (
	"fmt"
	"strings"
)

// PolicyMode decides what happens to a point whose elevation lookup failed.
type PolicyMode int

const (
	// Abort fails the whole assembly.
	Abort PolicyMode = iota
	// ReusePrevious copies the elevation of the previous output point.
	ReusePrevious
	// Sentinel writes a fixed value.
	Sentinel
	// Omit keeps the point without an elevation.
	Omit
)

type Policy struct {
	Mode     PolicyMode
	Sentinel float64
}

func (m PolicyMode) String() string {
	switch m {
	case Abort:
		return "abort"
	case ReusePrevious:
		return "previous"
	case Sentinel:
		return "sentinel"
	case Omit:
		return "omit"
	}
	return fmt.Sprintf("PolicyMode(%d)", int(m))
}

// ParsePolicy reads a policy name as used in configuration.
func ParsePolicy(name string, sentinel float64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "abort":
		return Policy{Mode: Abort}, nil
	case "previous":
		return Policy{Mode: ReusePrevious}, nil
	case "sentinel":
		return Policy{Mode: Sentinel, Sentinel: sentinel}, nil
	case "omit":
		return Policy{Mode: Omit}, nil
	}
	return Policy{}, fmt.Errorf("unknown elevation policy %q", name)
}
