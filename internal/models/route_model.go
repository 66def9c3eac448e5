package models

// Route is the computed plan for a ride, stored at routes/{rideId}. It is
// derived data: always replaceable by a recompute, never authored by a user.
// Distance is meters, FuelUsed is liters, Shape is the route geometry in
// travel order.
type Route struct {
	Distance float64 `json:"distance"`
	FuelUsed float64 `json:"fuelUsed"`
	Shape    []Coord `json:"shape"`
}
