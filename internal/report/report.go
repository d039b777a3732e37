// Package report renders background estimates for the terminal or for other
// programs.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signalsfoundry/thermal-etc/model"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Render for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Render writes est to w in the given format. An empty format means text.
func Render(w io.Writer, est model.BackgroundEstimate, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return renderText(w, est)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(est); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(est); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// renderText prints the three labelled result blocks.
func renderText(w io.Writer, est model.BackgroundEstimate) error {
	obs := est.Observation
	_, err := fmt.Fprintf(w,
		"\nNumber of photons from the thermal background\nthat strike a single pixel in %s s = %s\n\n"+
			"\nThermal background Poisson noise = %s\n\n"+
			"\nMinimum number of photons required to achieve a\nsignal-to-noise ratio greater than %s = %s\n\n",
		formatFloat(obs.ExposureTimeS), formatFloat(est.BackgroundPhotons),
		formatFloat(est.PhotonNoise),
		formatFloat(obs.SNRRatio), formatFloat(est.MinPhotonsForSNR),
	)
	return err
}

// formatFloat prints the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
