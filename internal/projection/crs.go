// Package projection converts WGS84 coordinates to planar metric coordinates
// so that straight-line distance approximates ground distance.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"backend-courseplay/internal/shared/geo"
)

var ErrUnknownCRS = errors.New("unknown projection")

// CRS is a planar coordinate reference system.
type CRS interface {
	Forward(p geo.LatLng) (x, y float64)
	Inverse(x, y float64) geo.LatLng
	Name() string
}

// Resolve maps a configured projection name to a CRS. The origin is the first
// vertex of the route and anchors the region-dependent choices.
//
// Accepted names: auto, utm, utm:<zone><N|S>, epsg:326xx, epsg:327xx, epsg:3310.
func Resolve(name string, origin geo.LatLng) (CRS, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "" || key == "auto":
		return NewLocalTM(origin.Lng), nil
	case key == "utm":
		return UTMFor(origin), nil
	case strings.HasPrefix(key, "utm:"):
		return parseUTMZone(strings.TrimPrefix(key, "utm:"))
	case key == "epsg:3310":
		return CaliforniaAlbers(), nil
	case strings.HasPrefix(key, "epsg:326"), strings.HasPrefix(key, "epsg:327"):
		code := strings.TrimPrefix(key, "epsg:")
		zone, err := strconv.Atoi(code[3:])
		if err != nil || zone < 1 || zone > 60 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCRS, name)
		}
		return NewUTM(zone, code[:3] == "326"), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCRS, name)
}

func parseUTMZone(s string) (CRS, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: utm:%s", ErrUnknownCRS, s)
	}
	hemi := s[len(s)-1]
	if hemi != 'n' && hemi != 's' {
		return nil, fmt.Errorf("%w: utm:%s", ErrUnknownCRS, s)
	}
	zone, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || zone < 1 || zone > 60 {
		return nil, fmt.Errorf("%w: utm:%s", ErrUnknownCRS, s)
	}
	return NewUTM(zone, hemi == 'n'), nil
}

// UTMFor picks the standard UTM zone containing p.
func UTMFor(p geo.LatLng) CRS {
	zone := int(math.Floor((p.Lng+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}
	if zone < 1 {
		zone = 1
	}
	return NewUTM(zone, p.Lat >= 0)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
