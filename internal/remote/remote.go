// Package remote defines the request capability the panel uses to reach a
// streaming platform, keyed by integration name, together with the resource
// shapes exchanged over it.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	MethodGet = "GET"
	MethodPut = "PUT"
)

// Resource paths understood by every integration.
const (
	PathChannel    = "channel"
	PathCatalogTop = "catalog/top"
)

// ChannelPath returns the writable channel resource for identity.
func ChannelPath(identity string) string {
	return PathChannel + "/" + identity
}

// Request is a single call against an integration.
type Request struct {
	Integration string
	Method      string
	Path        string
	Payload     map[string]string
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s/%s", r.Method, r.Integration, r.Path)
}

// Caller performs a request and returns the raw JSON response body.
type Caller interface {
	Call(ctx context.Context, req Request) (json.RawMessage, error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, req Request) (json.RawMessage, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	return f(ctx, req)
}

// Do performs req and decodes the response into T.
func Do[T any](ctx context.Context, c Caller, req Request) (T, error) {
	var out T
	body, err := c.Call(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &TransportError{
			Kind:    KindDecode,
			Request: req.String(),
			Message: "decode response",
			Err:     err,
		}
	}
	return out, nil
}

// Integrations routes requests to a Caller by integration name.
type Integrations map[string]Caller

// Call implements Caller.
func (m Integrations) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	c, ok := m[strings.TrimSpace(req.Integration)]
	if !ok || c == nil {
		return nil, &TransportError{
			Kind:    KindRoute,
			Request: req.String(),
			Message: fmt.Sprintf("no integration registered for %q", req.Integration),
		}
	}
	return c.Call(ctx, req)
}

// ErrorKind classifies a TransportError.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindDecode  ErrorKind = "decode"
	KindRoute   ErrorKind = "route"
)

// TransportError is any failure to obtain a usable response from an integration.
type TransportError struct {
	Kind    ErrorKind
	Request string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Request)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

// KindOf returns the transport error kind carried by err, or "".
func KindOf(err error) ErrorKind {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
