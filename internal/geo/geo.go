// Package geo provides the spherical-geometry primitives shared by the
// envelope, wind, and duration packages: great-circle forward projection and
// haversine distance on a spherical Earth measured in nautical miles.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles. All great-circle
// math in this repository uses the spherical model with this radius; wind
// radii in HURDAT2 are reported in nautical miles, so keeping the kernel in
// NM avoids unit churn.
const EarthRadiusNM = 3440.065

// EarthRadiusKM is the mean Earth radius in kilometres, used only to convert
// reported distances for output.
const EarthRadiusKM = 6371.0

// NMPerDegree is the nautical miles spanned by one degree of latitude
// (or of longitude at the equator).
const NMPerDegree = 60.0

// DestinationPoint returns the point reached by travelling distanceNM
// nautical miles from (lat, lon) along the given true bearing (0° = north,
// clockwise). The result longitude is normalized to [-180, 180).
//
// NaN or infinite inputs propagate as NaN coordinates rather than panicking;
// downstream samplers filter non-finite points.
func DestinationPoint(lat, lon, bearingDeg, distanceNM float64) (destLat, destLon float64) {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	bearingRad := bearingDeg * math.Pi / 180

	angular := distanceNM / EarthRadiusNM

	destLatRad := math.Asin(
		math.Sin(latRad)*math.Cos(angular) +
			math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))

	destLonRad := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(destLatRad))

	return destLatRad * 180 / math.Pi, NormalizeLon(destLonRad * 180 / math.Pi)
}

// HaversineNM returns the great-circle distance between two points in
// nautical miles.
func HaversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusNM * 2 * math.Asin(math.Sqrt(a))
}

// NMToKM converts nautical miles to kilometres.
func NMToKM(nm float64) float64 {
	return nm * (EarthRadiusKM / EarthRadiusNM)
}

// NormalizeLon wraps a longitude in degrees into [-180, 180).
func NormalizeLon(lon float64) float64 {
	if !isFinite(lon) {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// NormalizeBearing wraps a bearing in degrees into [0, 360).
func NormalizeBearing(deg float64) float64 {
	if !isFinite(deg) {
		return deg
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
