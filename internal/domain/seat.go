package domain

import "strings"

// Side is the qualitative seat recommendation relative to the direction of travel.
type Side string

const (
	SideLeft   Side = "Left"
	SideRight  Side = "Right"
	SideEither Side = "Either"
	SideBoth   Side = "Both"
)

// Lower returns the side name in lower case, as used inside explanations.
func (s Side) Lower() string { return strings.ToLower(string(s)) }

// Recommendation is the verdict of the seat engine together with a
// human-readable explanation.
type Recommendation struct {
	Side        Side   `json:"side"`
	Explanation string `json:"explanation"`
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Night     TimeOfDay = "night"
)

// Heading is the coarse compass sector of a bearing.
type Heading string

const (
	North Heading = "North"
	South Heading = "South"
	East  Heading = "East"
	West  Heading = "West"
)

// Axis reports whether the heading runs north–south or east–west.
func (h Heading) Axis() string {
	if h == North || h == South {
		return "north-south"
	}
	return "east-west"
}
