package core

import (
	"context"

	"github.com/signalsfoundry/thermal-etc/internal/logging"
	"github.com/signalsfoundry/thermal-etc/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/signalsfoundry/thermal-etc/core"

// EstimateRecorder receives every completed estimate, typically to update
// Prometheus gauges.
type EstimateRecorder interface {
	RecordEstimate(est model.BackgroundEstimate)
}

// Estimator chains the photometry helpers into the thermal background
// pipeline:
//
//	arcsec → radians → pixel area → background photons → photon noise
//	       → (photons + noise) × SNR ratio
//
// Absent inputs fall back to the built-in Paranal UT4 defaults. Non-finite
// results are logged and returned unchanged; they are never turned into
// errors. Build one with NewEstimator.
type Estimator struct {
	log     logging.Logger
	metrics EstimateRecorder
	tracer  trace.Tracer
}

// EstimatorOption customises Estimator construction.
type EstimatorOption func(*Estimator)

// WithMetricsRecorder attaches an optional recorder for estimate results.
func WithMetricsRecorder(m EstimateRecorder) EstimatorOption {
	return func(e *Estimator) {
		e.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) EstimatorOption {
	return func(e *Estimator) {
		e.tracer = t
	}
}

// NewEstimator builds an Estimator. With a nil logger, Estimate logs to the
// logger carried by its context, if any.
func NewEstimator(log logging.Logger, opts ...EstimatorOption) *Estimator {
	e := &Estimator{log: log}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Estimate runs the pipeline for obs.
func (e *Estimator) Estimate(ctx context.Context, obs model.Observation) model.BackgroundEstimate {
	obs = obs.WithDefaults()
	log := e.log
	if log == nil {
		log = logging.FromContext(ctx)
	}

	ctx, span := e.tracer.Start(ctx, "core/Estimate", trace.WithAttributes(
		attribute.Float64("etc.spectral_radiance", obs.SpectralRadiance),
		attribute.Float64("etc.exposure_time_s", obs.ExposureTimeS),
		attribute.Float64("etc.focal_length_m", obs.FocalLengthM),
		attribute.Float64("etc.sky_arcseconds", obs.SkyArcseconds),
		attribute.Float64("etc.snr_ratio", obs.SNRRatio),
	))
	defer span.End()

	angular := ArcsecondsToRadians(obs.SkyArcseconds)
	area := SquarePixelSize(obs.FocalLengthM, angular)
	photons := PhotonsPerPixel(area, obs.SpectralRadiance, obs.ExposureTimeS)
	noise := PhotonNoise(photons)
	total := photons + noise

	est := model.BackgroundEstimate{
		Observation:        obs,
		AngularSizeRad:     angular,
		SquarePixelSizeUm2: area,
		BackgroundPhotons:  photons,
		PhotonNoise:        noise,
		TotalBackground:    total,
		MinPhotonsForSNR:   MinPhotonsForSNR(total, obs.SNRRatio),
	}

	span.SetAttributes(
		attribute.Float64("etc.square_pixel_size_um2", est.SquarePixelSizeUm2),
		attribute.Float64("etc.background_photons", est.BackgroundPhotons),
		attribute.Float64("etc.photon_noise", est.PhotonNoise),
		attribute.Float64("etc.min_photons_for_snr", est.MinPhotonsForSNR),
	)

	if e.metrics != nil {
		e.metrics.RecordEstimate(est)
	}

	fields := []logging.Field{
		logging.Float64("square_pixel_size_um2", est.SquarePixelSizeUm2),
		logging.Float64("background_photons", est.BackgroundPhotons),
		logging.Float64("photon_noise", est.PhotonNoise),
		logging.Float64("min_photons_for_snr", est.MinPhotonsForSNR),
	}
	if !est.Finite() {
		span.SetStatus(codes.Error, "non-finite estimate")
		log.Warn(ctx, "estimate produced non-finite values", fields...)
		return est
	}
	log.Debug(ctx, "background estimate computed", fields...)
	return est
}
