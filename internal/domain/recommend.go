package domain

import (
	"fmt"
	"math"
)

const (
	nightExplanation  = "It's currently dark outside, so you can sit on any side you prefer!"
	behindExplanation = "The sun will be mostly behind you. Both sides should be comfortable."
	aheadExplanation  = "The sun will be mostly in front of you. Both sides will get some light."
)

// ClassifyTimeOfDay maps a local hour to morning [4,12), afternoon [12,19)
// or night. Hours outside 0-23 are reduced modulo 24.
func ClassifyTimeOfDay(hour int) TimeOfDay {
	hour %= 24
	if hour < 0 {
		hour += 24
	}

	switch {
	case hour >= 4 && hour < 12:
		return Morning
	case hour >= 12 && hour < 19:
		return Afternoon
	default:
		return Night
	}
}

// ClassifyHeading maps a bearing to its compass sector.
//
// Sectors are half-open on the lower side: North is (315,360] ∪ [0,45],
// East (45,135], South (135,225], West (225,315]. A bearing of exactly 45
// is therefore North and 135 is East.
func ClassifyHeading(bearing float64) Heading {
	if bearing < 0 || bearing > 360 {
		bearing = math.Mod(bearing, 360)
		if bearing < 0 {
			bearing += 360
		}
	}

	switch {
	case bearing > 315 || bearing <= 45:
		return North
	case bearing > 135 && bearing <= 225:
		return South
	case bearing > 45 && bearing <= 135:
		return East
	default:
		return West
	}
}

// RecommendSeat picks the shadier side of the vehicle for a trip with the
// given bearing that departs at localHour.
//
// The morning sun is taken to be in the east and the afternoon sun in the
// west. On a north-south heading one side faces the sun and the other is
// shaded. On an east-west heading the sun is either behind the traveller
// (Either) or ahead (Both). At night no side is preferred.
func RecommendSeat(bearing float64, localHour int) Recommendation {
	tod := ClassifyTimeOfDay(localHour)
	if tod == Night {
		return Recommendation{Side: SideEither, Explanation: nightExplanation}
	}

	heading := ClassifyHeading(bearing)
	morning := tod == Morning

	switch heading {
	case North, South:
		north := heading == North
		var side Side
		switch {
		case morning && north:
			side = SideLeft
		case morning:
			side = SideRight
		case north:
			side = SideRight
		default:
			side = SideLeft
		}

		sun := "west"
		if morning {
			sun = "east"
		}
		return Recommendation{
			Side: side,
			Explanation: fmt.Sprintf(
				"You're heading generally %s. In the %s, the sun is in the %s, so the %s side will be shadier.",
				heading, tod, sun, side.Lower(),
			),
		}
	default:
		// Morning eastbound and afternoon westbound trips share the Either verdict.
		if morning == (heading == East) {
			return Recommendation{Side: SideEither, Explanation: behindExplanation}
		}
		return Recommendation{Side: SideBoth, Explanation: aheadExplanation}
	}
}
