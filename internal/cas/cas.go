// Package cas talks to a CAS 2.0 single sign-on server such as login.ugent.be.
package cas

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrValidationFailed = errors.New("failed to validate ticket with CAS")
	ErrInvalidResponse  = errors.New("invalid response from CAS")
)

// AuthenticationError is returned when CAS rejects the ticket.
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("cas authentication failed: %s: %s", e.Code, e.Message)
}

// Client validates service tickets against one CAS server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the CAS server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying http client, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// LoginURL is where the browser is sent to authenticate for service.
func (c *Client) LoginURL(service string) string {
	return c.baseURL + "/login?" + url.Values{"service": {service}}.Encode()
}

// Validate exchanges ticket for the user's attributes. service must be the
// exact URL that was passed to LoginURL.
func (c *Client) Validate(ctx context.Context, service, ticket string) (Attributes, error) {
	query := url.Values{"service": {service}, "ticket": {ticket}}
	endpoint := c.baseURL + "/serviceValidate?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Attributes{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Attributes{}, fmt.Errorf("%w: status %d", ErrValidationFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return ParseServiceResponse(body)
}

type serviceResponse struct {
	XMLName xml.Name               `xml:"serviceResponse"`
	Success *authenticationSuccess `xml:"authenticationSuccess"`
	Failure *authenticationFailure `xml:"authenticationFailure"`
}

type authenticationSuccess struct {
	User       string `xml:"user"`
	Attributes struct {
		Items []attribute `xml:",any"`
	} `xml:"attributes"`
}

type authenticationFailure struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

type attribute struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// ParseServiceResponse decodes a serviceValidate body.
func ParseServiceResponse(body []byte) (Attributes, error) {
	var parsed serviceResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return Attributes{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if parsed.Failure != nil {
		return Attributes{}, &AuthenticationError{
			Code:    strings.TrimSpace(parsed.Failure.Code),
			Message: strings.TrimSpace(parsed.Failure.Message),
		}
	}
	if parsed.Success == nil {
		return Attributes{}, ErrInvalidResponse
	}

	attrs := Attributes{
		User:   strings.TrimSpace(parsed.Success.User),
		Values: make(map[string][]string, len(parsed.Success.Attributes.Items)),
	}
	for _, item := range parsed.Success.Attributes.Items {
		name := item.XMLName.Local
		attrs.Values[name] = append(attrs.Values[name], strings.TrimSpace(item.Value))
	}

	if attrs.UGentID() == "" {
		return Attributes{}, fmt.Errorf("%w: missing ugentID attribute", ErrInvalidResponse)
	}
	return attrs, nil
}
