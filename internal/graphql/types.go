// Package graphql is the request pipeline between the portfolio front-ends
// and the GraphQL API: an ordered chain of links (error observation, auth
// header injection, HTTP transport) plus a small response cache.
package graphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Operation is a single GraphQL request travelling down the link chain
type Operation struct {
	Name      string         `json:"operationName,omitempty"`
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`

	// Header is the per-request context links may augment before transport
	Header http.Header `json:"-"`
}

// Result is a GraphQL response; data and errors may both be present
type Result struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors Errors          `json:"errors,omitempty"`
}

// Location is a position in the query document
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Error is a protocol-level error reported by the API
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// Code returns extensions.code when the API supplies one
func (e Error) Code() string {
	if code, ok := e.Extensions["code"].(string); ok {
		return code
	}
	return ""
}

// Errors is the error list of a response
type Errors []Error

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "graphql: no errors"
	case 1:
		return e[0].Message
	default:
		return fmt.Sprintf("%s (and %d more errors)", e[0].Message, len(e)-1)
	}
}

// TransportError is a failure to exchange the request with the API at all:
// connection failures, timeouts, or responses that are not GraphQL.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("network error: unexpected status %d: %s", e.StatusCode, body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is (or wraps) a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUnauthorized reports whether the API answered with HTTP 401
func IsUnauthorized(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusUnauthorized
}
