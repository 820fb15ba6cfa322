package catalog

import (
	"errors"
	"time"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrInvalidName    = errors.New("invalid course name")
)

type Course struct {
	Name       string    `json:"name"`
	PointCount int       `json:"point_count"`
	LengthM    float64   `json:"length_m"`
	CreatedAt  time.Time `json:"created_at"`
}
