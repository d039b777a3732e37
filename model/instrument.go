package model

import "gonum.org/v1/gonum/unit"

// Instrument describes a telescope/detector pairing used to fill in the
// optical part of an Observation.
type Instrument struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	FocalLengthM float64 `json:"focal_length" yaml:"focal_length"`
	// PixelScaleArcsec is the angle on the sky covered by a single pixel.
	PixelScaleArcsec float64 `json:"pixel_scale_arcsec" yaml:"pixel_scale_arcsec"`
}

// FocalLength returns the focal length as a typed SI length.
func (i *Instrument) FocalLength() unit.Length {
	return unit.Length(i.FocalLengthM)
}

// Observation returns the optical fields this instrument contributes to an
// observation. Radiometric fields are left absent.
func (i *Instrument) Observation() Observation {
	return Observation{
		FocalLengthM:  i.FocalLengthM,
		SkyArcseconds: i.PixelScaleArcsec,
	}
}
