package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shade-seat-service/internal/services"
)

func newTripCmd(deps cliDeps, asJSON *bool) *cobra.Command {
	var depart string

	cmd := &cobra.Command{
		Use:     "trip FROM TO",
		Short:   "Geocode both places, look up the route and recommend a seat",
		Example: `  seatctl trip "Mangaluru" "Bengaluru" --depart 2026-04-10T09:30:00+05:30`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := services.TripRequest{From: args[0], To: args[1]}
			if depart != "" {
				t, err := time.Parse(time.RFC3339, depart)
				if err != nil {
					return fmt.Errorf("--depart: %w", err)
				}
				req.DepartAt = t
			}

			backend, err := deps.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = backend.close() }()
			req.Location = backend.location

			trip, err := services.RecommendTrip(cmd.Context(), req, backend.geocoder, backend.router, deps.now())
			if err != nil {
				return errors.New(services.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			if *asJSON {
				return printJSON(out, trip)
			}

			fmt.Fprintf(out, "From:     %s\n", trip.From.Name)
			fmt.Fprintf(out, "To:       %s\n", trip.To.Name)
			fmt.Fprintf(out, "Distance: %.1f km by road (%.1f km direct)\n",
				services.RoundKm(trip.Route.DistanceKm()), services.RoundKm(trip.GreatCircleKm))
			fmt.Fprintf(out, "Depart:   %s\n", trip.DepartAt.Format("02 Jan 2006, 3:04 PM"))
			fmt.Fprintf(out, "Arrive:   %s\n", trip.ArriveAt.Format("02 Jan 2006, 3:04 PM"))
			fmt.Fprintf(out, "Heading:  %s (%.1f°), %s\n", trip.Heading, trip.BearingDegrees, trip.TimeOfDay)
			fmt.Fprintf(out, "Seat:     %s\n%s\n", trip.Recommendation.Side, trip.Recommendation.Explanation)
			return nil
		},
	}
	cmd.Flags().StringVar(&depart, "depart", "", "departure time (RFC3339); defaults to now. The hour is read in the configured TIMEZONE, not the offset given here")
	return cmd
}
