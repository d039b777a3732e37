package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// jsonFloat is a float64 that survives JSON encoding when it is NaN or
// infinite. Those values are written as the strings "NaN", "+Inf" and "-Inf";
// finite values stay plain numbers.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = jsonFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number or \"NaN\"/\"+Inf\"/\"-Inf\", got %s", data)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(math.IsNaN(v) || math.IsInf(v, 0)) {
		return fmt.Errorf("expected \"NaN\", \"+Inf\" or \"-Inf\", got %q", s)
	}
	*f = jsonFloat(v)
	return nil
}

type observationJSON struct {
	SpectralRadiance jsonFloat `json:"spectral_radiance,omitempty"`
	ExposureTimeS    jsonFloat `json:"exposure_time,omitempty"`
	FocalLengthM     jsonFloat `json:"focal_length,omitempty"`
	SkyArcseconds    jsonFloat `json:"sky_arcseconds,omitempty"`
	SNRRatio         jsonFloat `json:"snr_ratio,omitempty"`
}

func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(observationJSON{
		SpectralRadiance: jsonFloat(o.SpectralRadiance),
		ExposureTimeS:    jsonFloat(o.ExposureTimeS),
		FocalLengthM:     jsonFloat(o.FocalLengthM),
		SkyArcseconds:    jsonFloat(o.SkyArcseconds),
		SNRRatio:         jsonFloat(o.SNRRatio),
	})
}

func (o *Observation) UnmarshalJSON(data []byte) error {
	var aux observationJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = Observation{
		SpectralRadiance: float64(aux.SpectralRadiance),
		ExposureTimeS:    float64(aux.ExposureTimeS),
		FocalLengthM:     float64(aux.FocalLengthM),
		SkyArcseconds:    float64(aux.SkyArcseconds),
		SNRRatio:         float64(aux.SNRRatio),
	}
	return nil
}

type estimateJSON struct {
	Observation        Observation `json:"observation"`
	AngularSizeRad     jsonFloat   `json:"angular_size_rad"`
	SquarePixelSizeUm2 jsonFloat   `json:"square_pixel_size_um2"`
	BackgroundPhotons  jsonFloat   `json:"background_photons"`
	PhotonNoise        jsonFloat   `json:"photon_noise"`
	TotalBackground    jsonFloat   `json:"total_background"`
	MinPhotonsForSNR   jsonFloat   `json:"min_photons_for_snr"`
}

// MarshalJSON encodes the estimate, writing non-finite quantities as strings
// so a NaN or infinite result never makes the encoding fail.
func (e BackgroundEstimate) MarshalJSON() ([]byte, error) {
	return json.Marshal(estimateJSON{
		Observation:        e.Observation,
		AngularSizeRad:     jsonFloat(e.AngularSizeRad),
		SquarePixelSizeUm2: jsonFloat(e.SquarePixelSizeUm2),
		BackgroundPhotons:  jsonFloat(e.BackgroundPhotons),
		PhotonNoise:        jsonFloat(e.PhotonNoise),
		TotalBackground:    jsonFloat(e.TotalBackground),
		MinPhotonsForSNR:   jsonFloat(e.MinPhotonsForSNR),
	})
}

func (e *BackgroundEstimate) UnmarshalJSON(data []byte) error {
	var aux estimateJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = BackgroundEstimate{
		Observation:        aux.Observation,
		AngularSizeRad:     float64(aux.AngularSizeRad),
		SquarePixelSizeUm2: float64(aux.SquarePixelSizeUm2),
		BackgroundPhotons:  float64(aux.BackgroundPhotons),
		PhotonNoise:        float64(aux.PhotonNoise),
		TotalBackground:    float64(aux.TotalBackground),
		MinPhotonsForSNR:   float64(aux.MinPhotonsForSNR),
	}
	return nil
}
