package models

// User represents a registered user. The UID is the Firebase Auth UID and is
// the database key at users/{uid}; it is not stored inside the record.
type User struct {
	UID          string             `json:"-"`
	Name         string             `json:"name"`
	AuthProvider string             `json:"authProvider"`
	Email        string             `json:"email"`
	Vehicles     map[string]Vehicle `json:"vehicles,omitempty"`
}

// Vehicle is a car owned by a user, keyed by CarID under users/{uid}/vehicles.
// FuelUsage is liters per 100 km. NumSeats is bounded 1..12 at the service
// boundary.
type Vehicle struct {
	CarID       string  `json:"-"`
	Type        string  `json:"type"`
	FuelUsage   float64 `json:"fuelUsage"`
	NumSeats    int     `json:"numSeats"`
	DisplayName string  `json:"displayName,omitempty"`
}
