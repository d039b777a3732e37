package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/thermal-etc/core"
	"github.com/signalsfoundry/thermal-etc/internal/config"
	"github.com/signalsfoundry/thermal-etc/internal/logging"
	"github.com/signalsfoundry/thermal-etc/internal/observability"
	"github.com/signalsfoundry/thermal-etc/internal/report"
	"github.com/signalsfoundry/thermal-etc/kb"
	"github.com/signalsfoundry/thermal-etc/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Long flag names for the observation inputs. They keep underscores so the
// command line matches the documented interface.
const (
	flagSpectralRadiance = "spectral_radiance"
	flagExposureTime     = "exposure_time"
	flagFocalLength      = "focal_length"
	flagSkyArcseconds    = "sky_arcseconds"
)

// shortAliases maps the two-letter single-dash spellings onto long flags.
// pflag only knows one-letter shorthands, so these are rewritten before
// parsing.
var shortAliases = map[string]string{
	"-sr": "--" + flagSpectralRadiance,
	"-et": "--" + flagExposureTime,
	"-fl": "--" + flagFocalLength,
	"-sa": "--" + flagSkyArcseconds,
}

var underscoreFlags = map[string]bool{
	flagSpectralRadiance: true,
	flagExposureTime:     true,
	flagFocalLength:      true,
	flagSkyArcseconds:    true,
}

// options holds the parsed flag values shared by every command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	logSource  bool

	instrument      string
	output          string
	metricsTextfile string

	spectralRadiance float64
	exposureTime     float64
	focalLength      float64
	skyArcseconds    float64
	snrRatio         float64
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "thermal-etc",
		Short: "Estimate thermal background photons, photon noise and the SNR detection floor for one pixel",
		Long: `thermal-etc estimates the number of thermal-background photons that strike a
single detector pixel over an exposure, the Poisson noise of that count, and
the minimum photon count needed to reach the requested signal-to-noise ratio.

Values come from flags, then the --config file, then the selected instrument,
then built-in defaults (Paranal UT4, one hour).`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, _ []string) error {
			return o.runEstimate(c)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(usageError)

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML or JSON file with observation values and extra instruments")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or warn)")
	pf.StringVar(&o.logFormat, "log-format", "", "log format: text or json (default $LOG_FORMAT or text)")
	pf.BoolVar(&o.logSource, "log-source", false, "include the source file and line in log records")

	f := cmd.Flags()
	f.SetNormalizeFunc(normalizeFlagName)
	f.Float64Var(&o.spectralRadiance, flagSpectralRadiance, model.DefaultSpectralRadiance,
		"spectral radiance of the thermal background in W/(m^2·sr·μm) (alias -sr)")
	f.Float64Var(&o.exposureTime, flagExposureTime, model.DefaultExposureTimeS,
		"exposure time in seconds (alias -et)")
	f.Float64Var(&o.focalLength, flagFocalLength, model.DefaultFocalLengthM,
		"focal length of the telescope in meters (alias -fl)")
	f.Float64Var(&o.skyArcseconds, flagSkyArcseconds, model.DefaultSkyArcseconds,
		"angle on the sky covered by one pixel, in arcseconds (alias -sa)")
	f.Float64Var(&o.snrRatio, "snr", model.DefaultSNRRatio, "target signal-to-noise ratio")
	f.StringVar(&o.instrument, "instrument", "", "instrument profile supplying focal length and pixel scale (default "+kb.DefaultInstrumentID+")")
	f.StringVarP(&o.output, "output", "o", report.FormatText, "output format: text, json or yaml")
	f.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics for this run to the given file")

	cmd.AddCommand(newInstrumentsCmd(o))
	return cmd
}

// usageError reports a command-line mistake with the usage text on stderr
// and maps it to exit code 2. Cobra's own usage printing is silenced so
// stdout only ever carries the report.
func usageError(c *cobra.Command, err error) error {
	fmt.Fprintf(c.ErrOrStderr(), "Error: %v\n%s", err, c.UsageString())
	return &ExitError{Code: 2, Err: err}
}

// noArgs rejects positional arguments, including mistyped subcommand names.
func noArgs(c *cobra.Command, args []string) error {
	if err := cobra.NoArgs(c, args); err != nil {
		return usageError(c, err)
	}
	return nil
}

// normalizeFlagName lets --spectral-radiance and friends reach their
// underscore spelling. Other flags keep their hyphenated names.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alt := strings.ReplaceAll(name, "-", "_"); underscoreFlags[alt] {
		return pflag.NormalizedName(alt)
	}
	return pflag.NormalizedName(name)
}

// expandShortAliases rewrites -sr, -et, -fl and -sa (optionally with =value)
// to their long form. Arguments after a bare "--" are left alone.
func expandShortAliases(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		long, ok := shortAliases[name]
		switch {
		case !ok:
			out = append(out, arg)
		case hasValue:
			out = append(out, long+"="+value)
		default:
			out = append(out, long)
		}
	}
	return out
}

func (o *options) logger(c *cobra.Command) logging.Logger {
	cfg := logging.ConfigFromEnv(logging.Config{Level: o.logLevel, Format: o.logFormat, AddSource: o.logSource}, "warn")
	return logging.New(c.ErrOrStderr(), cfg)
}

// loadCatalog builds the instrument catalog and, when --config is set, the
// parsed file.
func (o *options) loadCatalog() (*kb.Catalog, *config.File, error) {
	catalog := kb.NewCatalog()
	if o.configPath == "" {
		return catalog, &config.File{}, nil
	}
	file, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := file.Register(catalog); err != nil {
		return nil, nil, fmt.Errorf("loading instruments from %q: %w", o.configPath, err)
	}
	return catalog, file, nil
}

// observationFromFlags returns only the values set explicitly on the command
// line; everything else stays absent so lower-precedence sources can fill it.
func (o *options) observationFromFlags(flags *pflag.FlagSet) model.Observation {
	var obs model.Observation
	if flags.Changed(flagSpectralRadiance) {
		obs.SpectralRadiance = o.spectralRadiance
	}
	if flags.Changed(flagExposureTime) {
		obs.ExposureTimeS = o.exposureTime
	}
	if flags.Changed(flagFocalLength) {
		obs.FocalLengthM = o.focalLength
	}
	if flags.Changed(flagSkyArcseconds) {
		obs.SkyArcseconds = o.skyArcseconds
	}
	if flags.Changed("snr") {
		obs.SNRRatio = o.snrRatio
	}
	return obs
}

func (o *options) runEstimate(c *cobra.Command) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := o.logger(c)
	ctx = logging.ContextWithLogger(ctx, log)

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), c.ErrOrStderr(), log)
	if err != nil {
		return fmt.Errorf("initialising tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	catalog, file, err := o.loadCatalog()
	if err != nil {
		return err
	}

	instrument := o.instrument
	if instrument == "" {
		instrument = file.Instrument
	}
	obs := o.observationFromFlags(c.Flags()).Merge(file.Observation)
	obs, err = catalog.Resolve(obs, instrument)
	if err != nil {
		return err
	}
	log.Debug(ctx, "resolved observation",
		logging.String("instrument", instrument),
		logging.Any("observation", obs),
	)

	collector, err := observability.NewEstimateCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("initialising metrics: %w", err)
	}
	estimator := core.NewEstimator(nil, core.WithMetricsRecorder(collector))
	est := estimator.Estimate(ctx, obs)

	if err := report.Render(c.OutOrStdout(), est, o.output); err != nil {
		return err
	}

	if o.metricsTextfile != "" {
		if err := collector.WriteTextfile(o.metricsTextfile); err != nil {
			return err
		}
		log.Info(ctx, "wrote metrics textfile", logging.String("path", o.metricsTextfile))
	}
	return nil
}
