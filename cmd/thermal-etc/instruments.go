package main

import (
	"fmt"

	"github.com/signalsfoundry/thermal-etc/core"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/unit"
)

func newInstrumentsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List the instrument profiles available to --instrument",
		Args:  noArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			catalog, _, err := o.loadCatalog()
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			fmt.Fprintf(out, "%-16s %-24s %12s %12s %12s\n", "ID", "NAME", "FOCAL", "SCALE", "PITCH")
			for _, inst := range catalog.AllInstruments() {
				pitch := core.PixelPitch(inst.FocalLengthM, core.ArcsecondsToRadians(inst.PixelScaleArcsec))
				fmt.Fprintf(out, "%-16s %-24s %12s %11.3f″ %9.2f μm\n",
					inst.ID,
					inst.Name,
					fmt.Sprintf("%.1f", inst.FocalLength()),
					inst.PixelScaleArcsec,
					float64(pitch)/unit.Micro,
				)
			}
			return nil
		},
	}
}
