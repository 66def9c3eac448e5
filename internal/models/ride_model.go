package models

// Coord is a geographic coordinate in degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ride represents a planned shared trip. It is stored at rides/{id}; the ID
// field carries the database key and is never written back into the record.
//
// Driver and CarID are optional and written as two independent paths; other
// clients may observe one updated before the other (the store gives no
// cross-path atomicity). CarID should reference a vehicle owned by Driver,
// which the engine checks best-effort before writing.
type Ride struct {
	ID         string                 `json:"-"`
	Name       string                 `json:"name"`
	Start      string                 `json:"start,omitempty"` // pickup point key, empty until resolved
	End        Coord                  `json:"end"`
	Driver     string                 `json:"driver,omitempty"`
	CarID      string                 `json:"carId,omitempty"`
	IsComplete bool                   `json:"isComplete"`
	StartDate  string                 `json:"startDate"`
	PickupPoints map[string]PickupPoint `json:"pickupPoints,omitempty"`
}

// PickupPoint is a boarding location belonging to a ride. Members is the set
// of user IDs boarding here; a member of any pickup point is a passenger of
// the parent ride.
type PickupPoint struct {
	ID       string          `json:"-"`
	Location Coord           `json:"location"`
	Members  map[string]bool `json:"members,omitempty"`
	Geocode  string          `json:"geocode,omitempty"`
}

// HasMember reports whether userID is registered at this pickup point.
func (p PickupPoint) HasMember(userID string) bool {
	return p.Members[userID]
}
