package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"igfollow/pkg/errors"
	"igfollow/pkg/logger"
	"igfollow/pkg/ratelimit"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// webAppID identifies the Instagram web client; the private API rejects
// requests without it.
const webAppID = "936619743392459"

// Credentials carries the session cookies required by the private API.
type Credentials struct {
	SessionID string
	CSRFToken string
	UserAgent string
}

// Client talks to Instagram's private web API.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	pageSize   int
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a client authenticated with the given session
// credentials. The limiter paces page requests; pass nil to disable pacing.
func NewClient(creds Credentials, timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	agent := creds.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      agent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
			"X-IG-App-ID":     webAppID,
			"X-CSRFToken":     creds.CSRFToken,
			"Referer":         BaseURL + "/",
			"Cookie":          fmt.Sprintf("sessionid=%s; csrftoken=%s", creds.SessionID, creds.CSRFToken),
		},
		baseURL:  BaseURL,
		pageSize: DefaultPageSize,
		limiter:  limiter,
		logger:   log,
	}
}

// SetPageSize overrides the number of users requested per page.
func (c *Client) SetPageSize(n int) {
	if n > 0 {
		c.pageSize = n
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if err := c.checkResponseStatus(resp, body); err != nil {
		return err
	}
	if readErr != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", readErr),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps HTTP status codes to typed errors. The messages
// for 401 and 429 deliberately echo the phrases the backoff layer matches
// against.
func (c *Client) checkResponseStatus(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "401 Unauthorized: session expired or invalid",
			Code:    resp.StatusCode,
		}
	case http.StatusForbidden:
		// Instagram answers throttled or flagged sessions with a
		// feedback_required payload on 403.
		msg := "access denied"
		if len(body) > 0 {
			msg = trimForMessage(body)
		}
		c.logger.WarnWithFields("access denied", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: msg,
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeRateLimit,
			Message: "rate limit exceeded, please wait a few minutes",
			Code:    resp.StatusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &errors.Error{
				Type:    errors.ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

func trimForMessage(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// ResolveUserID resolves a username to its numeric user ID via the web
// profile endpoint.
func (c *Client) ResolveUserID(ctx context.Context, username string) (string, error) {
	url := GetProfileURL(username)

	c.logger.DebugWithFields("resolving user ID", map[string]interface{}{
		"username": username,
	})

	var response ProfileResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		return "", err
	}

	if response.RequiresToLogin {
		return "", &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "401 Unauthorized: Instagram requires authentication to view this profile",
			Code:    http.StatusUnauthorized,
		}
	}

	if response.Data.User.ID == "" {
		return "", &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: fmt.Sprintf("user %q not found", username),
			Code:    http.StatusNotFound,
		}
	}

	return response.Data.User.ID, nil
}

// FetchFollowers returns the usernames of every account following target.
func (c *Client) FetchFollowers(ctx context.Context, target string) ([]string, error) {
	return c.fetchRelation(ctx, target, "followers", GetFollowersURL)
}

// FetchFollowees returns the usernames of every account target follows.
func (c *Client) FetchFollowees(ctx context.Context, target string) ([]string, error) {
	return c.fetchRelation(ctx, target, "following", GetFollowingURL)
}

func (c *Client) fetchRelation(ctx context.Context, target, label string, urlFor func(userID, maxID string, pageSize int) string) ([]string, error) {
	userID, err := c.ResolveUserID(ctx, target)
	if err != nil {
		return nil, err
	}

	var usernames []string
	maxID := ""
	page := 0

	for {
		if c.limiter != nil {
			c.limiter.Wait()
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var response FriendshipResponse
		if err := c.getJSON(ctx, urlFor(userID, maxID, c.pageSize), &response); err != nil {
			return nil, err
		}

		if response.Status != "" && response.Status != "ok" {
			msg := response.Message
			if msg == "" {
				msg = "status " + response.Status
			}
			return nil, &errors.Error{
				Type:    errors.ErrorTypeUnknown,
				Message: msg,
				Code:    0,
			}
		}

		for _, u := range response.Users {
			name := u.Username
			if name == "" {
				name = strconv.FormatInt(u.PK, 10)
			}
			usernames = append(usernames, name)
		}

		page++
		c.logger.DebugWithFields("fetched relation page", map[string]interface{}{
			"target":   target,
			"relation": label,
			"page":     page,
			"users":    len(response.Users),
		})

		if response.NextMaxID == "" || len(response.Users) == 0 {
			break
		}
		maxID = response.NextMaxID
	}

	c.logger.InfoWithFields("fetched relation list", map[string]interface{}{
		"target":   target,
		"relation": label,
		"total":    len(usernames),
		"pages":    page,
	})

	return usernames, nil
}
