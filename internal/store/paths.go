package store

import "strings"

// Top-level locations in the database tree. These mirror the layout the web
// client reads, so both ends stay subscribed to the same paths.
const (
	GroupsPath     = "groups"
	UsersPath      = "users"
	RidesPath      = "rides"
	PassengersPath = "passengers"
	RoutesPath     = "routes"
	GroupChatsPath = "chats/groups"
	RideChatsPath  = "chats/rides"
)

// Join builds a path from segments, skipping empties.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
