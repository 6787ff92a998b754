package smarthome

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smart-home-alexaskill/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second

	// authHeader carries the shared secret expected by the backend.
	authHeader = "X-Auth-Code"

	maxResponseBytes = 1 << 20
)

// Client talks to the smart home backend over its HTTP control surface.
type Client struct {
	baseURL    string
	authCode   string
	timeout    time.Duration
	tlsConfig  *tls.Config
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, ignoring WithTimeout,
// WithRootCAs and WithInsecureTLS.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRootCAs trusts only the given pool, for backends serving a
// self-signed certificate.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) {
		c.tlsConfig = &tls.Config{RootCAs: pool}
	}
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}
}

// NewClient creates a backend client for the given base URL. The auth code
// is sent on every request; an empty code sends no auth header.
func NewClient(baseURL, authCode string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		authCode: authCode,
		timeout:  defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
		if c.tlsConfig != nil {
			c.httpClient.Transport = &http.Transport{TLSClientConfig: c.tlsConfig}
		}
	}

	return c
}

// wireDevice is the backend's device listing entry.
type wireDevice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func parseDeviceType(s string) (domain.DeviceType, bool) {
	switch t := domain.DeviceType(s); t {
	case domain.DeviceTypeLightSwitch,
		domain.DeviceTypeDimmer,
		domain.DeviceTypeRollerShutter,
		domain.DeviceTypeHeating,
		domain.DeviceTypeAlarm:
		return t, true
	default:
		return "", false
	}
}

// ListDevices fetches the device registry. Entries with a type this module
// does not model are skipped.
func (c *Client) ListDevices(ctx context.Context) ([]domain.Device, error) {
	body, err := c.get(ctx, "/devices")
	if err != nil {
		return nil, err
	}

	var wire []wireDevice
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decoding device list: %w", err)
	}

	devices := make([]domain.Device, 0, len(wire))
	for _, w := range wire {
		devType, ok := parseDeviceType(w.Type)
		if !ok {
			continue
		}
		devices = append(devices, domain.Device{ID: w.ID, Name: w.Name, Type: devType})
	}

	return devices, nil
}

// SetPowerState switches a device on or off.
func (c *Client) SetPowerState(ctx context.Context, deviceID string, state domain.DevicePowerState) error {
	_, err := c.get(ctx, fmt.Sprintf("/device/%s/set/power-state/value/%s", url.PathEscape(deviceID), state))
	return err
}

// SetPercentage moves a device to the given percentage.
func (c *Client) SetPercentage(ctx context.Context, deviceID string, percentage int) error {
	_, err := c.get(ctx, fmt.Sprintf("/device/%s/set/percentage/value/%d", url.PathEscape(deviceID), percentage))
	return err
}

// SetTargetTemperature sets a thermostat target in whole degrees Celsius.
func (c *Client) SetTargetTemperature(ctx context.Context, deviceID string, degrees int) error {
	_, err := c.get(ctx, fmt.Sprintf("/device/%s/set/target-temperature/value/%d", url.PathEscape(deviceID), degrees))
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.authCode != "" {
		req.Header.Set(authHeader, c.authCode)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
