package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/thermal-etc/model"
)

// EstimateCollector bundles Prometheus metrics describing background
// estimates. It satisfies core.EstimateRecorder.
type EstimateCollector struct {
	gatherer prometheus.Gatherer

	Estimates        prometheus.Counter
	NonFinite        prometheus.Counter
	SquarePixelSize  prometheus.Gauge
	BackgroundPhoton prometheus.Gauge
	PhotonNoise      prometheus.Gauge
	MinPhotonsForSNR prometheus.Gauge
}

// NewEstimateCollector registers estimate metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEstimateCollector(reg prometheus.Registerer) (*EstimateCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	estimates, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermal_etc_estimates_total",
		Help: "Total number of background estimates computed.",
	}), "thermal_etc_estimates_total")
	if err != nil {
		return nil, err
	}
	nonFinite, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thermal_etc_nonfinite_estimates_total",
		Help: "Number of estimates with a NaN or infinite output.",
	}), "thermal_etc_nonfinite_estimates_total")
	if err != nil {
		return nil, err
	}
	area, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "thermal_etc_square_pixel_size_um2",
		Help: "Pixel area of the last estimate in square micrometres.",
	}), "thermal_etc_square_pixel_size_um2")
	if err != nil {
		return nil, err
	}
	photons, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "thermal_etc_background_photons",
		Help: "Thermal background photons per pixel over the exposure of the last estimate.",
	}), "thermal_etc_background_photons")
	if err != nil {
		return nil, err
	}
	noise, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "thermal_etc_photon_noise",
		Help: "Poisson noise of the background photon count of the last estimate.",
	}), "thermal_etc_photon_noise")
	if err != nil {
		return nil, err
	}
	minPhotons, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "thermal_etc_min_photons_for_snr",
		Help: "Minimum photon count for the requested signal-to-noise ratio of the last estimate.",
	}), "thermal_etc_min_photons_for_snr")
	if err != nil {
		return nil, err
	}

	return &EstimateCollector{
		gatherer:         gatherer,
		Estimates:        estimates,
		NonFinite:        nonFinite,
		SquarePixelSize:  area,
		BackgroundPhoton: photons,
		PhotonNoise:      noise,
		MinPhotonsForSNR: minPhotons,
	}, nil
}

// RecordEstimate updates the counters and last-value gauges.
func (c *EstimateCollector) RecordEstimate(est model.BackgroundEstimate) {
	if c == nil {
		return
	}
	c.Estimates.Inc()
	if !est.Finite() {
		c.NonFinite.Inc()
	}
	c.SquarePixelSize.Set(est.SquarePixelSizeUm2)
	c.BackgroundPhoton.Set(est.BackgroundPhotons)
	c.PhotonNoise.Set(est.PhotonNoise)
	c.MinPhotonsForSNR.Set(est.MinPhotonsForSNR)
}

// WriteTextfile writes all gathered metrics to path in the text exposition
// format, as read by the node exporter textfile collector.
func (c *EstimateCollector) WriteTextfile(path string) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
