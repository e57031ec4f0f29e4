package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/printcrm/internal/pricing"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

const (
	remoteBodyReadLimit int64 = 1 << 20
	defaultRemoteTimeout      = 5 * time.Second
)

var errBaseURLRequired = errors.New("catalog base url is required")

// RemoteClient performs catalog lookups against a running printcrm API.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
}

// RemoteOption configures optional client behavior.
type RemoteOption func(*RemoteClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(c *RemoteClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewRemoteClient builds a client for the API rooted at baseURL
// (e.g. http://localhost:3007).
func NewRemoteClient(baseURL string, opts ...RemoteOption) (*RemoteClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	client := &RemoteClient{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultRemoteTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *RemoteClient) ListProducts(ctx context.Context, query string) ([]string, error) {
	var out ProductsDTO
	if err := c.get(ctx, "/api/v1/products", url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *RemoteClient) Specifications(ctx context.Context, productName string) ([]string, error) {
	var out SpecificationsDTO
	if err := c.get(ctx, "/api/v1/products/specifications", url.Values{"productName": {productName}}, &out); err != nil {
		return nil, err
	}
	if out.Specifications == nil {
		return []string{}, nil
	}
	return out.Specifications, nil
}

func (c *RemoteClient) PriceRate(ctx context.Context, productName, specification string) (PriceRate, error) {
	var out PriceRate
	params := url.Values{"productName": {productName}, "productSpecification": {specification}}
	if err := c.get(ctx, "/api/v1/products/price", params, &out); err != nil {
		return PriceRate{}, err
	}
	return out, nil
}

func (c *RemoteClient) SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error) {
	var out SizeLimitsDTO
	if err := c.get(ctx, "/api/v1/products/max-side", url.Values{"productName": {productName}}, &out); err != nil {
		return pricing.SizeLimits{}, err
	}
	return pricing.SizeLimits{MaxSide: out.MaxSide, ExtraSupply: out.ExtraSupply}, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RemoteClient) get(ctx context.Context, path string, params url.Values, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	endpoint := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, remoteBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		msg := "catalog entry not found"
		if decodeErr == nil && env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case resp.StatusCode != http.StatusOK:
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			"catalog request failed")
	case decodeErr != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode catalog response")
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog payload")
	}
	return nil
}
