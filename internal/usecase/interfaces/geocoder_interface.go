package interfaces

import "context"

// GeocodeResult is the resolved shipping address. Found is false when the
// query did not match any address.
type GeocodeResult struct {
	FormattedAddress string
	CountryCode      string
	Found            bool
}

// IGeocoder abstracts address lookup (Google Maps Geocoding API).

type IGeocoder interface {
	Geocode(ctx context.Context, query, region string) (GeocodeResult, error)
}
