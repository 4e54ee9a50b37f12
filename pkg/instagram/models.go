package instagram

// ProfileResponse represents the top-level response from the web profile endpoint
type ProfileResponse struct {
	RequiresToLogin bool        `json:"requires_to_login"`
	Data            ProfileData `json:"data"`
	Status          string      `json:"status"`
}

// ProfileData wraps the user information in the response
type ProfileData struct {
	User ProfileUser `json:"user"`
}

// ProfileUser carries the resolved account identity
type ProfileUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	IsPrivate bool   `json:"is_private"`
}

// FriendshipResponse is a single page of a followers or following listing
type FriendshipResponse struct {
	Users     []UserShort `json:"users"`
	NextMaxID string      `json:"next_max_id"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
}

// UserShort is the compact user record the friendships API returns
type UserShort struct {
	PK        int64  `json:"pk"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	IsPrivate bool   `json:"is_private"`
}
