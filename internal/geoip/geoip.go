// Package geoip resolves a submitter IP to coarse location data for the
// private submission log. Lookups are best-effort: any failure degrades to
// unknown fields, never to an error the caller must handle.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Location is the resolved geo data for an IP address.
type Location struct {
	IP      string
	City    string
	Region  string
	Country string
	ISP     string
}

const unknown = "Unknown"

// Client queries the ipapi.co JSON endpoint.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a lookup client with a short timeout so a slow geo
// service can never hold up post creation.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: "https://ipapi.co",
	}
}

// Lookup resolves ip. On any failure the returned Location still carries the
// ip with unknown geo fields.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	loc := Location{
		IP:      ip,
		City:    unknown,
		Region:  unknown,
		Country: unknown,
		ISP:     unknown,
	}
	if ip == "" {
		loc.IP = "UNKNOWN_IP"
		return loc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, ip), nil)
	if err != nil {
		return loc
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return loc
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return loc
	}

	var body struct {
		City        string `json:"city"`
		Region      string `json:"region"`
		CountryName string `json:"country_name"`
		Org         string `json:"org"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return loc
	}
	if body.City != "" {
		loc.City = body.City
	}
	if body.Region != "" {
		loc.Region = body.Region
	}
	if body.CountryName != "" {
		loc.Country = body.CountryName
	}
	if body.Org != "" {
		loc.ISP = body.Org
	}
	return loc
}
