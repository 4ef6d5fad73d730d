// Package coingecko fetches bridge-asset quotes from the CoinGecko simple price API.
package coingecko

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/procurement_agent/internal/adapters/httpx"
	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/tidwall/gjson"
)

const providerName = "coingecko"

// Client implements gateways.MarketDataProvider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a client. apiKey is optional; when set it is sent as the demo key header.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpx.NewClient(timeout),
		now:        time.Now,
	}
}

// BridgeQuotes calls /simple/price?ids=<asset>&vs_currencies=<codes>. Returned prices are
// keyed by upper-case currency code; currencies missing from the payload are absent.
func (c *Client) BridgeQuotes(ctx context.Context, asset string, currencies []string) (*domain.BridgeQuotes, error) {
	codes := make([]string, len(currencies))
	for i, code := range currencies {
		codes[i] = strings.ToLower(code)
	}

	q := url.Values{}
	q.Set("ids", asset)
	q.Set("vs_currencies", strings.Join(codes, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build coingecko request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, httpx.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	if !httpx.IsSuccess(resp.StatusCode) {
		return nil, httpx.StatusError(providerName, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpx.TransportError(providerName, err)
	}
	return c.parse(body, asset, codes)
}

func (c *Client) parse(body []byte, asset string, codes []string) (*domain.BridgeQuotes, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: coingecko payload is not valid JSON", apperrors.ErrMalformedResponse)
	}

	assetQuotes := gjson.GetBytes(body, asset)
	if !assetQuotes.Exists() {
		return nil, fmt.Errorf("%w: %s missing from coingecko payload", domain.ErrNoBridgeData, asset)
	}
	if !assetQuotes.IsObject() {
		return nil, fmt.Errorf("%w: %s quotes are not an object", apperrors.ErrMalformedResponse, asset)
	}

	prices := make(map[string]float64, len(codes))
	for _, code := range codes {
		v := assetQuotes.Get(code)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%w: %s price for %s is not a number", apperrors.ErrMalformedResponse, asset, code)
		}
		price := v.Float()
		if math.IsInf(price, 0) || math.IsNaN(price) {
			return nil, fmt.Errorf("%w: %s price for %s is out of range: %s", apperrors.ErrMalformedResponse, asset, code, v.Raw)
		}
		prices[strings.ToUpper(code)] = price
	}

	return &domain.BridgeQuotes{Asset: asset, Prices: prices, FetchedAt: c.now()}, nil
}
