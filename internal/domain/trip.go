package domain

import "time"

// Represents the outcome of one seat recommendation for a trip.
// A TripRecommendation is transient: it is built for a single request and
// never stored.
type TripRecommendation struct {
	From           Place          `json:"from"`
	To             Place          `json:"to"`
	Route          RouteInfo      `json:"route"`
	BearingDegrees float64        `json:"bearing_degrees"`
	Heading        Heading        `json:"heading"`
	TimeOfDay      TimeOfDay      `json:"time_of_day"`
	LocalHour      int            `json:"local_hour"`
	DepartAt       time.Time      `json:"depart_at"`
	ArriveAt       time.Time      `json:"arrive_at"`
	GreatCircleKm  float64        `json:"great_circle_km"`
	Recommendation Recommendation `json:"recommendation"`
}
