package api

import (
	"sort"

	"carpool-backend-go/internal/models"
)

// ErrorResponse is the standardized error payload for all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Stored records keep their key out of the record body, so responses carry it
// explicitly.

// GroupResponse is the API shape of a group.
type GroupResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsPrivate   bool            `json:"isPrivate"`
	Owner       string          `json:"owner"`
	MaxSize     int             `json:"maxSize"`
	Members     map[string]bool `json:"members"`
	Rides       map[string]bool `json:"rides"`
	Banner      string          `json:"banner,omitempty"`
	ProfilePic  string          `json:"profilePic,omitempty"`
}

func toGroupResponse(g *models.Group) GroupResponse {
	resp := GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		IsPrivate:   g.IsPrivate,
		Owner:       g.Owner,
		MaxSize:     g.MaxSize,
		Members:     g.Members,
		Rides:       g.Rides,
		Banner:      g.Banner,
		ProfilePic:  g.ProfilePic,
	}
	if resp.Members == nil {
		resp.Members = map[string]bool{}
	}
	if resp.Rides == nil {
		resp.Rides = map[string]bool{}
	}
	return resp
}

// PickupPointResponse is the API shape of one pickup point.
type PickupPointResponse struct {
	ID       string          `json:"id"`
	Location models.Coord    `json:"location"`
	Members  map[string]bool `json:"members"`
	Geocode  string          `json:"geocode,omitempty"`
}

// RideResponse is the API shape of a ride. Pickup points are returned as an
// ordered list; their key order is the insertion order clients rely on.
type RideResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Start        string                `json:"start,omitempty"`
	End          models.Coord          `json:"end"`
	Driver       string                `json:"driver,omitempty"`
	CarID        string                `json:"carId,omitempty"`
	IsComplete   bool                  `json:"isComplete"`
	StartDate    string                `json:"startDate"`
	PickupPoints []PickupPointResponse `json:"pickupPoints"`
}

func toRideResponse(r *models.Ride) RideResponse {
	keys := make([]string, 0, len(r.PickupPoints))
	for k := range r.PickupPoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pickups := make([]PickupPointResponse, 0, len(keys))
	for _, k := range keys {
		p := r.PickupPoints[k]
		members := p.Members
		if members == nil {
			members = map[string]bool{}
		}
		pickups = append(pickups, PickupPointResponse{
			ID:       k,
			Location: p.Location,
			Members:  members,
			Geocode:  p.Geocode,
		})
	}
	return RideResponse{
		ID:           r.ID,
		Name:         r.Name,
		Start:        r.Start,
		End:          r.End,
		Driver:       r.Driver,
		CarID:        r.CarID,
		IsComplete:   r.IsComplete,
		StartDate:    r.StartDate,
		PickupPoints: pickups,
	}
}

// RouteResponse is the API shape of a computed route.
type RouteResponse struct {
	Distance float64        `json:"distance"`
	FuelUsed float64        `json:"fuelUsed"`
	Shape    []models.Coord `json:"shape"`
}

func toRouteResponse(r *models.Route) RouteResponse {
	shape := r.Shape
	if shape == nil {
		shape = []models.Coord{}
	}
	return RouteResponse{Distance: r.Distance, FuelUsed: r.FuelUsed, Shape: shape}
}

// VehicleResponse is the API shape of a vehicle.
type VehicleResponse struct {
	CarID       string  `json:"carId"`
	Type        string  `json:"type"`
	FuelUsage   float64 `json:"fuelUsage"`
	NumSeats    int     `json:"numSeats"`
	DisplayName string  `json:"displayName,omitempty"`
}

func toVehicleResponse(v *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		CarID:       v.CarID,
		Type:        v.Type,
		FuelUsage:   v.FuelUsage,
		NumSeats:    v.NumSeats,
		DisplayName: v.DisplayName,
	}
}

// UserResponse is the API shape of a user profile.
type UserResponse struct {
	UID          string            `json:"uid"`
	Name         string            `json:"name"`
	AuthProvider string            `json:"authProvider"`
	Email        string            `json:"email"`
	Vehicles     []VehicleResponse `json:"vehicles"`
}

func toUserResponse(u *models.User) UserResponse {
	keys := make([]string, 0, len(u.Vehicles))
	for k := range u.Vehicles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vehicles := make([]VehicleResponse, 0, len(keys))
	for _, k := range keys {
		v := u.Vehicles[k]
		vehicles = append(vehicles, toVehicleResponse(&v))
	}
	return UserResponse{
		UID:          u.UID,
		Name:         u.Name,
		AuthProvider: u.AuthProvider,
		Email:        u.Email,
		Vehicles:     vehicles,
	}
}

// RecomputeStatusResponse reports whether a mutation launched a route
// recompute. The route itself arrives through the watch endpoints; this is
// only the acknowledgement.
type RecomputeStatusResponse struct {
	RecomputeStarted bool `json:"recomputeStarted"`
}
