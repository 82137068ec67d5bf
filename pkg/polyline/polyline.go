// Package polyline implements the signed-delta varint encoding used by
// routing providers to ship route shapes. Values are encoded in 5 bit groups
// with 0x20 as the continuation bit and a zig-zag sign, offset by 63 into
// printable ASCII.
package polyline

import (
	"errors"
	"math"
	"strings"

	"github.com/wayfarer/wayfarer/pkg/geo"
)

// DefaultPrecision is the number of decimal digits the route provider
// encodes shapes with (a multiplier of 1e6).
const DefaultPrecision = 6

var ErrMalformedEncoding = errors.New("polyline terminates mid value")

// Decode converts an encoded shape into absolute coordinates by accumulating
// the deltas. Truncated input fails with ErrMalformedEncoding rather than
// returning a partial result.
func Decode(encoded string, precision uint) ([]geo.Coordinate, error) {
	factor := math.Pow10(int(precision))

	var coords []geo.Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = next
		lat += latDelta

		lonDelta, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = next
		lon += lonDelta

		coords = append(coords, geo.Coordinate{
			Latitude:  float64(lat) / factor,
			Longitude: float64(lon) / factor,
		})
	}

	return coords, nil
}

func decodeValue(encoded string, index int) (int, int, error) {
	shift := 0
	result := 0

	for {
		if index >= len(encoded) {
			// Ran out of bytes with the continuation bit still set
			return 0, 0, ErrMalformedEncoding
		}

		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// Encode is the inverse of Decode, used by tests and fixtures.
func Encode(coords []geo.Coordinate, precision uint) string {
	factor := math.Pow10(int(precision))

	var builder strings.Builder
	prevLat := 0
	prevLon := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Latitude * factor))
		lon := int(math.Round(coord.Longitude * factor))

		encodeValue(&builder, lat-prevLat)
		encodeValue(&builder, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return builder.String()
}

func encodeValue(builder *strings.Builder, value int) {
	value <<= 1
	if value < 0 {
		value = ^value
	}

	for value >= 0x20 {
		builder.WriteByte(byte((0x20 | (value & 0x1f)) + 63))
		value >>= 5
	}
	builder.WriteByte(byte(value + 63))
}
