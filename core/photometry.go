package core

import (
	"math"

	"gonum.org/v1/gonum/unit"
)

// ArcsecondsPerRadian is the number of arcseconds in one radian.
const ArcsecondsPerRadian = (3600 * 180) / math.Pi

// micrometresPerMetre scales a length in metres to micrometres.
const micrometresPerMetre = 1e6

// ArcsecondsToRadians converts an angle on the sky from arcseconds to radians.
func ArcsecondsToRadians(arcsec float64) float64 {
	return arcsec / ArcsecondsPerRadian
}

// PixelPitch returns the linear size of a pixel that subtends angularSize
// (radians) behind a lens of the given focal length (metres).
func PixelPitch(focalLength, angularSize float64) unit.Length {
	return unit.Length(focalLength * math.Tan(angularSize))
}

// SquarePixelSize returns the pixel area in μm².
//
// Formula: area = (focal_length × tan(angular_size) × 1e6)²
//
// No bounds checking is done; tan diverges at odd multiples of π/2 and the
// result propagates as-is.
func SquarePixelSize(focalLength, angularSize float64) float64 {
	side := focalLength * math.Tan(angularSize) * micrometresPerMetre
	return side * side
}

// PhotonsPerPixel returns the expected number of background photons landing
// on one pixel. The collecting area of the pixel is taken to be its size, and
// the caller is responsible for unit consistency.
func PhotonsPerPixel(squarePixelSize, spectralRadiance, exposureTime float64) float64 {
	collectingArea := squarePixelSize
	return spectralRadiance * collectingArea * exposureTime
}

// PhotonNoise returns the Poisson (shot) noise of a photon count, i.e. the
// standard deviation sqrt(n). Negative counts yield NaN.
func PhotonNoise(photonCount float64) float64 {
	return math.Sqrt(photonCount)
}

// MinPhotonsForSNR scales a background level by ratio. The CLI uses it to
// express "ratio times the noise floor"; no signal-to-noise comparison is
// performed.
func MinPhotonsForSNR(backgroundLevel, ratio float64) float64 {
	return backgroundLevel * ratio
}
