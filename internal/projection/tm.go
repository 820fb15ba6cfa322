package projection

import (
	"fmt"
	"math"

	"backend-courseplay/internal/shared/geo"
)

// WGS84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
)

// TransverseMercator implements the Krüger series to sixth order in n.
type TransverseMercator struct {
	name          string
	lon0          float64 // radians
	k0            float64
	falseEasting  float64
	falseNorthing float64

	e     float64
	bigA  float64
	alpha [7]float64
	beta  [7]float64
}

// NewLocalTM returns a unit-scale transverse Mercator centred on lon0 (degrees).
func NewLocalTM(lon0 float64) *TransverseMercator {
	return newTM(fmt.Sprintf("tm:%.6f", lon0), lon0, 1, 0, 0)
}

// NewUTM returns the UTM projection for a zone and hemisphere.
func NewUTM(zone int, north bool) *TransverseMercator {
	hemi, fn := "N", 0.0
	if !north {
		hemi, fn = "S", 10000000
	}
	lon0 := float64(zone-1)*6 - 180 + 3
	return newTM(fmt.Sprintf("utm:%d%s", zone, hemi), lon0, 0.9996, 500000, fn)
}

func newTM(name string, lon0Deg, k0, fe, fn float64) *TransverseMercator {
	n := wgs84F / (2 - wgs84F)
	n2, n3 := n*n, n*n*n
	n4, n5, n6 := n3*n, n3*n2, n3*n3

	tm := &TransverseMercator{
		name:          name,
		lon0:          deg2rad(lon0Deg),
		k0:            k0,
		falseEasting:  fe,
		falseNorthing: fn,
		e:             math.Sqrt(wgs84F * (2 - wgs84F)),
		bigA:          wgs84A / (1 + n) * (1 + n2/4 + n4/64 + n6/256),
	}
	tm.alpha = [7]float64{0,
		n/2 - 2.0/3*n2 + 5.0/16*n3 + 41.0/180*n4 - 127.0/288*n5 + 7891.0/37800*n6,
		13.0/48*n2 - 3.0/5*n3 + 557.0/1440*n4 + 281.0/630*n5 - 1983433.0/1935360*n6,
		61.0/240*n3 - 103.0/140*n4 + 15061.0/26880*n5 + 167603.0/181440*n6,
		49561.0/161280*n4 - 179.0/168*n5 + 6601661.0/7257600*n6,
		34729.0/80640*n5 - 3418889.0/1995840*n6,
		212378941.0 / 319334400 * n6,
	}
	tm.beta = [7]float64{0,
		n/2 - 2.0/3*n2 + 37.0/96*n3 - 1.0/360*n4 - 81.0/512*n5 + 96199.0/604800*n6,
		1.0/48*n2 + 1.0/15*n3 - 437.0/1440*n4 + 46.0/105*n5 - 1118711.0/3870720*n6,
		17.0/480*n3 - 37.0/840*n4 - 209.0/4480*n5 + 5569.0/90720*n6,
		4397.0/161280*n4 - 11.0/504*n5 - 830251.0/7257600*n6,
		4583.0/161280*n5 - 108847.0/3991680*n6,
		20648693.0 / 638668800 * n6,
	}
	return tm
}

func (tm *TransverseMercator) Name() string { return tm.name }

// conformal latitude tangent
func (tm *TransverseMercator) tauPrime(tau float64) float64 {
	sigma := math.Sinh(tm.e * math.Atanh(tm.e*tau/math.Sqrt(1+tau*tau)))
	return tau*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+tau*tau)
}

func (tm *TransverseMercator) Forward(p geo.LatLng) (float64, float64) {
	phi := deg2rad(p.Lat)
	lambda := deg2rad(p.Lng) - tm.lon0

	cosL := math.Cos(lambda)
	tp := tm.tauPrime(math.Tan(phi))
	xiP := math.Atan2(tp, cosL)
	etaP := math.Asinh(math.Sin(lambda) / math.Sqrt(tp*tp+cosL*cosL))

	xi, eta := xiP, etaP
	for j := 1; j <= 6; j++ {
		fj := float64(2 * j)
		xi += tm.alpha[j] * math.Sin(fj*xiP) * math.Cosh(fj*etaP)
		eta += tm.alpha[j] * math.Cos(fj*xiP) * math.Sinh(fj*etaP)
	}

	x := tm.k0*tm.bigA*eta + tm.falseEasting
	y := tm.k0*tm.bigA*xi + tm.falseNorthing
	return x, y
}

func (tm *TransverseMercator) Inverse(x, y float64) geo.LatLng {
	eta := (x - tm.falseEasting) / (tm.k0 * tm.bigA)
	xi := (y - tm.falseNorthing) / (tm.k0 * tm.bigA)

	xiP, etaP := xi, eta
	for j := 1; j <= 6; j++ {
		fj := float64(2 * j)
		xiP -= tm.beta[j] * math.Sin(fj*xi) * math.Cosh(fj*eta)
		etaP -= tm.beta[j] * math.Cos(fj*xi) * math.Sinh(fj*eta)
	}

	sinhEtaP := math.Sinh(etaP)
	sinXiP := math.Sin(xiP)
	cosXiP := math.Cos(xiP)

	tp := sinXiP / math.Sqrt(sinhEtaP*sinhEtaP+cosXiP*cosXiP)
	e2 := tm.e * tm.e
	tau := tp
	for i := 0; i < 10; i++ {
		tpi := tm.tauPrime(tau)
		delta := (tp - tpi) / math.Sqrt(1+tpi*tpi) *
			(1 + (1-e2)*tau*tau) / ((1 - e2) * math.Sqrt(1+tau*tau))
		tau += delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	lambda := math.Atan2(sinhEtaP, cosXiP)
	return geo.LatLng{
		Lat: rad2deg(math.Atan(tau)),
		Lng: normalizeLng(rad2deg(lambda + tm.lon0)),
	}
}

func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
