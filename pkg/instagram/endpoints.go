package instagram

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ProfileEndpoint resolves a username to its numeric user ID
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// FollowersEndpoint is the endpoint pattern for a user's followers
	FollowersEndpoint = "/api/v1/friendships/%s/followers/"

	// FollowingEndpoint is the endpoint pattern for accounts a user follows
	FollowingEndpoint = "/api/v1/friendships/%s/following/"

	// DefaultPageSize is the default number of users to fetch per request
	DefaultPageSize = 100

	// MaxPageSize is the largest page the friendships API accepts
	MaxPageSize = 200
)

// GetProfileURL constructs the URL for resolving a username to a profile
func GetProfileURL(username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", BaseURL, ProfileEndpoint, params.Encode())
}

// GetFollowersURL constructs a paginated followers URL for a user ID
func GetFollowersURL(userID, maxID string, pageSize int) string {
	return relationURL(FollowersEndpoint, userID, maxID, pageSize)
}

// GetFollowingURL constructs a paginated following URL for a user ID
func GetFollowingURL(userID, maxID string, pageSize int) string {
	return relationURL(FollowingEndpoint, userID, maxID, pageSize)
}

func relationURL(endpoint, userID, maxID string, pageSize int) string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(pageSize))
	if maxID != "" {
		params.Set("max_id", maxID)
	}

	return fmt.Sprintf("%s%s?%s", BaseURL, fmt.Sprintf(endpoint, userID), params.Encode())
}

// GetUserProfileURL constructs the public profile URL for a user
func GetUserProfileURL(username string) string {
	if username == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", BaseURL, username)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}
