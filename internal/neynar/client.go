package neynar

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Siddesh7/f-disperse/internal/httpx"
)

// ErrNotFound means the identity service has no record for the username.
var ErrNotFound = errors.New("farcaster user not found")

// Client resolves Farcaster usernames through the Neynar API.
type Client struct {
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// User carries the addresses bound to a Farcaster identity.
type User struct {
	Verifications  []string `json:"verifications"`
	CustodyAddress string   `json:"custody_address"`
}

type userResponse struct {
	User User `json:"user"`
}

// UserByUsername looks up a username without the leading sigil.
func (c *Client) UserByUsername(ctx context.Context, username string) (User, error) {
	endpoint := c.baseURL + "/v2/farcaster/user/by_username"

	res, err := httpx.Call[userResponse](
		ctx,
		http.MethodGet,
		endpoint,
		map[string]string{
			"x-api-key":             c.apiKey,
			"x-neynar-experimental": "false",
		},
		nil,
		map[string]string{
			"username": username,
		},
	)
	if err != nil {
		if httpx.NotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return res.User, nil
}
