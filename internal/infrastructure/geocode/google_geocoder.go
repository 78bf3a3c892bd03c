// Package geocode resolves free-text shipping addresses with the Google Maps
// Geocoding API.
package geocode

import (
	"context"
	"strings"

	"googlemaps.github.io/maps"

	"dropbot/internal/usecase/interfaces"
)

// GoogleGeocoder implements IGeocoder on the Google Maps client.
type GoogleGeocoder struct {
	client *maps.Client
}

var _ interfaces.IGeocoder = (*GoogleGeocoder)(nil)

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query, region string) (interfaces.GeocodeResult, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: query,
		Region:  strings.ToLower(region),
	})
	if err != nil {
		return interfaces.GeocodeResult{}, err
	}
	if len(results) == 0 {
		return interfaces.GeocodeResult{}, nil
	}

	best := results[0]
	out := interfaces.GeocodeResult{
		FormattedAddress: best.FormattedAddress,
		Found:            true,
	}
	for _, component := range best.AddressComponents {
		for _, t := range component.Types {
			if t == "country" {
				out.CountryCode = component.ShortName
			}
		}
	}
	return out, nil
}
