package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/ports"
)

type tripBackend struct {
	geocoder ports.Geocoder
	router   ports.RouteProvider
	location *time.Location
	close    func() error
}

type cliDeps struct {
	open func(ctx context.Context) (*tripBackend, error)
	now  func() time.Time
}

func newRootCmd(deps cliDeps) *cobra.Command {
	var asJSON bool

	root := &cobra.Command{
		Use:          "seatctl",
		Short:        "Recommend the shady side of the bus",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newBearingCmd(&asJSON),
		newSeatCmd(&asJSON),
		newTripCmd(deps, &asJSON),
	)
	return root
}

// parseCoordinates accepts "lat,lon".
func parseCoordinates(s string) (domain.Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("coordinates %q: want lat,lon", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("coordinates %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("coordinates %q: longitude: %w", s, err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("coordinates %q: %w", s, err)
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
