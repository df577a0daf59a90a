package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Siddesh7/f-disperse/internal/httpx"
)

// ErrNotListed means CoinGecko has no record for the contract. Unlisted
// tokens are dropped from the inventory since the UI cannot safely show
// scale or identity for them.
var ErrNotListed = errors.New("token not listed on coingecko")

// Client is the asset-listing service, queried per contract on Base.
type Client struct {
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// Listing is the listed identity of a token.
type Listing struct {
	Symbol string
	Name   string
	Logo   string
}

type contractResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  struct {
		Small string `json:"small"`
	} `json:"image"`
}

func (c *Client) Lookup(ctx context.Context, contract string) (Listing, error) {
	endpoint := fmt.Sprintf("%s/api/v3/coins/base/contract/%s", c.baseURL, strings.ToLower(contract))

	res, err := httpx.Call[contractResponse](ctx, http.MethodGet, endpoint, nil, nil, nil)
	if err != nil {
		if httpx.NotFound(err) {
			return Listing{}, ErrNotListed
		}
		return Listing{}, fmt.Errorf("failed to look up listing: %w", err)
	}

	return Listing{
		Symbol: strings.ToUpper(res.Symbol),
		Name:   res.Name,
		Logo:   res.Image.Small,
	}, nil
}
