// Package portal fetches the company list of an ApecGlobal portal tenant.
//
// The endpoint is GET {base}/companies. It may answer with a bare JSON array
// or with an envelope of the form {"data": [...]}; both are accepted. Company
// ids may be strings or numbers.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apecglobal/logofield/pkg/cache"
	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/layout"
)

// Client reads companies from one portal base URL.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a portal client. token, when non-empty, is sent as a
// bearer token. Responses are cached in backend for ttl.
func NewClient(backend cache.Cache, baseURL, token string, ttl time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return &Client{
		Client:  integrations.NewClient(backend, "portal", ttl, headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Companies returns the tenant's companies in the order the portal lists them.
// Entries without a name are skipped.
//
// Returns [integrations.ErrNotFound] if the endpoint does not exist and
// [integrations.ErrNetwork] for transport failures.
func (c *Client) Companies(ctx context.Context, refresh bool) ([]layout.Entity, error) {
	url := c.baseURL + "/companies"

	var out []layout.Entity
	err := c.Cached(ctx, url, refresh, &out, func() error {
		raw, err := c.GetBytes(ctx, url)
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: portal companies at %s", err, url)
			}
			return err
		}
		out, err = decodeCompanies(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []layout.Entity{}
	}
	return out, nil
}

// Entities implements [integrations.Source].
func (c *Client) Entities(ctx context.Context, refresh bool) ([]layout.Entity, error) {
	return c.Companies(ctx, refresh)
}

// Name returns "portal:" followed by the base URL.
func (c *Client) Name() string { return "portal:" + c.baseURL }

var _ integrations.Source = (*Client)(nil)

type company struct {
	ID      flexID `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	LogoURL string `json:"logo_url"`
	LogoAlt string `json:"logoUrl"`
}

type envelope struct {
	Data []company `json:"data"`
}

func decodeCompanies(raw []byte) ([]layout.Entity, error) {
	raw = bytes.TrimSpace(raw)

	var list []company
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode companies: %w", err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode companies: %w", err)
		}
		list = env.Data
	}

	out := make([]layout.Entity, 0, len(list))
	for i, co := range list {
		name := strings.TrimSpace(co.Name)
		if name == "" {
			continue
		}
		id := string(co.ID)
		if id == "" {
			id = "company-" + strconv.Itoa(i+1)
		}
		out = append(out, layout.Entity{
			ID:      id,
			Name:    name,
			LogoURL: firstNonEmpty(co.LogoURL, co.LogoAlt, co.Logo),
		})
	}
	return out, nil
}

// flexID accepts both "42" and 42.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("company id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
