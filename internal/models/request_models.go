package models

// CreateGroupRequest represents the request body for creating a new group.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	IsPrivate   bool   `json:"isPrivate"`
	MaxSize     int    `json:"maxSize" binding:"required,min=2"`
}

// SetMemberRequest toggles a user's membership of a group.
type SetMemberRequest struct {
	UserID   string `json:"userId" binding:"required"`
	IsMember *bool  `json:"isMember" binding:"required"` // pointer so an explicit false survives binding
}

// SetGroupRideRequest attaches or detaches a ride from a group's ride list.
type SetGroupRideRequest struct {
	RideID  string `json:"rideId" binding:"required"`
	IsChild *bool  `json:"isChild" binding:"required"`
}

// CreateRideRequest represents the request body for creating a new ride.
// Pickup points may be supplied inline; each receives a generated key.
type CreateRideRequest struct {
	Name         string        `json:"name" binding:"required"`
	End          Coord         `json:"end" binding:"required"`
	StartDate    string        `json:"startDate" binding:"required"`
	PickupPoints []PickupPoint `json:"pickupPoints,omitempty"`
}

// AssignDriverRequest names the driver and the vehicle they will use.
type AssignDriverRequest struct {
	DriverID string `json:"driverId" binding:"required"`
	CarID    string `json:"carId,omitempty"`
}

// SelectStartRequest fixes the ride's start at an existing pickup point.
type SelectStartRequest struct {
	PickupID string `json:"pickupId" binding:"required"`
}

// AddPickupRequest adds a pickup point to a ride.
type AddPickupRequest struct {
	Location Coord  `json:"location" binding:"required"`
	Geocode  string `json:"geocode,omitempty"`
}

// JoinPickupRequest adds or removes a user at a pickup point.
type JoinPickupRequest struct {
	UserID      string `json:"userId" binding:"required"`
	IsPassenger *bool  `json:"isPassenger" binding:"required"`
}

// SetPassengerRequest toggles a user's entry in the ride passenger registry.
type SetPassengerRequest struct {
	UserID      string `json:"userId" binding:"required"`
	IsPassenger *bool  `json:"isPassenger" binding:"required"`
}

// SetVehicleRequest creates or replaces one of the caller's vehicles.
type SetVehicleRequest struct {
	CarID       string  `json:"carId,omitempty"` // empty means generate one
	Type        string  `json:"type" binding:"required"`
	FuelUsage   float64 `json:"fuelUsage" binding:"required,gt=0"`
	NumSeats    int     `json:"numSeats" binding:"required,min=1,max=12"`
	DisplayName string  `json:"displayName,omitempty"`
}

// SendMessageRequest appends a chat message; the timestamp is server-assigned.
type SendMessageRequest struct {
	Contents string `json:"contents" binding:"required"`
}
