package response

import "time"

type UserResponse struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Role           string    `json:"role"`
	CartID         string    `json:"cart_id"`
	LastConnection time.Time `json:"last_connection"`
}

// UserSummary is the admin-listing projection. It deliberately excludes the
// password hash, cart and reset-token fields.
type UserSummary struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	LastConnection time.Time `json:"last_connection"`
}

// PruneReport summarizes an inactive-account sweep.
type PruneReport struct {
	Selected int      `json:"selected"`
	Removed  int      `json:"removed"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
