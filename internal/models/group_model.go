package models

// Group is a carpool community. Members and Rides are boolean-keyed sets, the
// natural shape for membership leaves in the store (present+true = member).
// Invariant: Owner is always present in Members.
type Group struct {
	ID          string          `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsPrivate   bool            `json:"isPrivate"`
	Owner       string          `json:"owner"`
	MaxSize     int             `json:"maxSize"`
	Members     map[string]bool `json:"members,omitempty"`
	Rides       map[string]bool `json:"rides,omitempty"`
	Banner      string          `json:"banner,omitempty"`
	ProfilePic  string          `json:"profilePic,omitempty"`
}
