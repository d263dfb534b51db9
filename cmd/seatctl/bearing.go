package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shade-seat-service/internal/domain"
)

func newBearingCmd(asJSON *bool) *cobra.Command {
	var hour int

	cmd := &cobra.Command{
		Use:   "bearing ORIGIN DESTINATION",
		Short: "Compute the initial bearing between two lat,lon points",
		Example: `  seatctl bearing 12.9141,74.8560 12.9716,77.5946
  seatctl bearing 12.9141,74.8560 12.9716,77.5946 --hour 15`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseCoordinates(args[0])
			if err != nil {
				return err
			}
			dest, err := parseCoordinates(args[1])
			if err != nil {
				return err
			}

			bearing := domain.ComputeBearing(origin, dest)
			heading := domain.ClassifyHeading(bearing)

			var rec *domain.Recommendation
			if cmd.Flags().Changed("hour") {
				r := domain.RecommendSeat(bearing, hour)
				rec = &r
			}

			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, struct {
					BearingDegrees float64                `json:"bearing_degrees"`
					Heading        domain.Heading         `json:"heading"`
					Recommendation *domain.Recommendation `json:"recommendation,omitempty"`
				}{bearing, heading, rec})
			}

			fmt.Fprintf(out, "Bearing: %.2f° (%s)\n", bearing, heading)
			if rec != nil {
				fmt.Fprintf(out, "Seat: %s\n%s\n", rec.Side, rec.Explanation)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&hour, "hour", 0, "local departure hour (0-23); adds a seat recommendation")
	return cmd
}

func newSeatCmd(asJSON *bool) *cobra.Command {
	var (
		bearing float64
		hour    int
	)

	cmd := &cobra.Command{
		Use:     "seat",
		Short:   "Recommend a seat side for a bearing and local hour",
		Example: "  seatctl seat --bearing 200 --hour 15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := domain.RecommendSeat(bearing, hour)

			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, rec)
			}
			fmt.Fprintf(out, "Seat: %s\n%s\n", rec.Side, rec.Explanation)
			return nil
		},
	}
	cmd.Flags().Float64Var(&bearing, "bearing", 0, "direction of travel in degrees clockwise from north")
	cmd.Flags().IntVar(&hour, "hour", 0, "local hour of day (0-23)")
	_ = cmd.MarkFlagRequired("bearing")
	_ = cmd.MarkFlagRequired("hour")
	return cmd
}
