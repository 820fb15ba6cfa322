package catalog

import (
	"context"
	"errors"
	"fmt"

	"backend-courseplay/internal/db"

	"github.com/jackc/pgx/v5"
)

// PGStore keeps courses in the courses table.
type PGStore struct {
	db         db.Querier
	projection string
}

func NewPGStore(db db.Querier, projectionName string) *PGStore {
	return &PGStore{db: db, projection: projectionName}
}

func (s *PGStore) List(ctx context.Context) ([]Course, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, point_count, length_m, created_at
		FROM courses
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.Name, &c.PointCount, &c.LengthM, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *PGStore) Load(ctx context.Context, name string) ([]byte, error) {
	n, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	var gpx []byte
	err = s.db.QueryRow(ctx, `SELECT gpx FROM courses WHERE name=$1`, n).Scan(&gpx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, n)
	}
	if err != nil {
		return nil, err
	}
	return gpx, nil
}

func (s *PGStore) Save(ctx context.Context, name string, gpx []byte) (Course, error) {
	n, err := CleanName(name)
	if err != nil {
		return Course{}, err
	}
	c, err := Summarize(n, gpx, s.projection)
	if err != nil {
		return Course{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO courses (name, gpx, point_count, length_m)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (name) DO UPDATE
		SET gpx=EXCLUDED.gpx, point_count=EXCLUDED.point_count, length_m=EXCLUDED.length_m
		RETURNING created_at
	`, c.Name, gpx, c.PointCount, c.LengthM)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}
