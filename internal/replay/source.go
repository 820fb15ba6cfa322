package replay

import "errors"

var ErrNoRoute = errors.New("no route given: upload a gpx_file or pick a course")

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceUploaded
	sourceRegistered
)

// RouteSource says where the course geometry comes from.
type RouteSource struct {
	kind sourceKind
	path string
	name string
}

// Uploaded is a route GPX file on local disk.
func Uploaded(path string) RouteSource {
	return RouteSource{kind: sourceUploaded, path: path}
}

// PreRegistered is a course from the catalog.
func PreRegistered(name string) RouteSource {
	return RouteSource{kind: sourceRegistered, name: name}
}

func (s RouteSource) String() string {
	switch s.kind {
	case sourceUploaded:
		return "uploaded:" + s.path
	case sourceRegistered:
		return "course:" + s.name
	}
	return "none"
}
