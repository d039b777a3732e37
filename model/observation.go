package model

import "math"

// Built-in observation defaults. They describe a one-hour exposure on the
// Paranal UT4 telescope, where one pixel corresponds to 0.106″ on the sky.
const (
	// DefaultSpectralRadiance is a placeholder thermal background in
	// W/(m²·sr·μm), chosen to give a whole number of photons per pixel
	// over one hour.
	DefaultSpectralRadiance = 1e-6
	DefaultExposureTimeS    = 3600.0
	DefaultFocalLengthM     = 120.0
	DefaultSkyArcseconds    = 0.106
	// DefaultSNRRatio is the signal-to-noise target used when deriving the
	// minimum detectable photon count.
	DefaultSNRRatio = 5.0
)

// Observation holds the inputs of a single background estimate. A zero field
// is treated as absent and replaced by its default in WithDefaults.
type Observation struct {
	// SpectralRadiance of the thermal background in W/(m²·sr·μm).
	SpectralRadiance float64 `json:"spectral_radiance,omitempty" yaml:"spectral_radiance,omitempty"`
	ExposureTimeS    float64 `json:"exposure_time,omitempty" yaml:"exposure_time,omitempty"`
	FocalLengthM     float64 `json:"focal_length,omitempty" yaml:"focal_length,omitempty"`
	// SkyArcseconds is the angle on the sky covered by one pixel.
	SkyArcseconds float64 `json:"sky_arcseconds,omitempty" yaml:"sky_arcseconds,omitempty"`
	SNRRatio      float64 `json:"snr_ratio,omitempty" yaml:"snr_ratio,omitempty"`
}

// DefaultObservation returns the built-in observation.
func DefaultObservation() Observation {
	return Observation{
		SpectralRadiance: DefaultSpectralRadiance,
		ExposureTimeS:    DefaultExposureTimeS,
		FocalLengthM:     DefaultFocalLengthM,
		SkyArcseconds:    DefaultSkyArcseconds,
		SNRRatio:         DefaultSNRRatio,
	}
}

// WithDefaults returns a copy of o with every absent (zero) field replaced by
// the built-in default.
func (o Observation) WithDefaults() Observation {
	return o.Merge(DefaultObservation())
}

// Merge returns a copy of o where each absent field is taken from fallback.
// Fields already set on o always win.
func (o Observation) Merge(fallback Observation) Observation {
	out := o
	if out.SpectralRadiance == 0 {
		out.SpectralRadiance = fallback.SpectralRadiance
	}
	if out.ExposureTimeS == 0 {
		out.ExposureTimeS = fallback.ExposureTimeS
	}
	if out.FocalLengthM == 0 {
		out.FocalLengthM = fallback.FocalLengthM
	}
	if out.SkyArcseconds == 0 {
		out.SkyArcseconds = fallback.SkyArcseconds
	}
	if out.SNRRatio == 0 {
		out.SNRRatio = fallback.SNRRatio
	}
	return out
}

// BackgroundEstimate is the result of one pass through the estimation
// pipeline. All photon quantities are per pixel over the exposure.
type BackgroundEstimate struct {
	Observation Observation `json:"observation" yaml:"observation"`

	AngularSizeRad     float64 `json:"angular_size_rad" yaml:"angular_size_rad"`
	SquarePixelSizeUm2 float64 `json:"square_pixel_size_um2" yaml:"square_pixel_size_um2"`

	BackgroundPhotons float64 `json:"background_photons" yaml:"background_photons"`
	PhotonNoise       float64 `json:"photon_noise" yaml:"photon_noise"`
	// TotalBackground is BackgroundPhotons plus one standard deviation of
	// photon noise.
	TotalBackground  float64 `json:"total_background" yaml:"total_background"`
	MinPhotonsForSNR float64 `json:"min_photons_for_snr" yaml:"min_photons_for_snr"`
}

// Finite reports whether every derived quantity is a finite number.
func (e BackgroundEstimate) Finite() bool {
	for _, v := range []float64{
		e.AngularSizeRad,
		e.SquarePixelSizeUm2,
		e.BackgroundPhotons,
		e.PhotonNoise,
		e.TotalBackground,
		e.MinPhotonsForSNR,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
