package application

import (
	"time"

	"github.com/google/uuid"
)

const (
	// PayloadVersion is the protocol version stamped on every envelope.
	PayloadVersion = "3"

	// UncertaintyMillis is the fixed uncertainty window reported with every
	// context property observation.
	UncertaintyMillis = 200

	// timestampLayout renders sample times; timeOfSample is always UTC.
	timestampLayout = "2006-01-02T15:04:05.000Z"

	scaleCelsius = "CELSIUS"

	errorTypeInvalidDirective = "INVALID_DIRECTIVE"
	errorMessageInvalid       = "Request is invalid."
)

type Response struct {
	Context *Context `json:"context,omitempty"`
	Event   Event    `json:"event"`
}

type Context struct {
	Properties []Property `json:"properties"`
}

type Property struct {
	Namespace                 string `json:"namespace"`
	Name                      string `json:"name"`
	TimeOfSample              string `json:"timeOfSample"`
	UncertaintyInMilliseconds int    `json:"uncertaintyInMilliseconds"`
	Value                     any    `json:"value"`
}

type Event struct {
	Header   Header            `json:"header"`
	Endpoint *ResponseEndpoint `json:"endpoint,omitempty"`
	Payload  *ResponsePayload  `json:"payload,omitempty"`
}

type ResponseEndpoint struct {
	EndpointID string `json:"endpointId"`
	Scope      Scope  `json:"scope"`
}

// ResponsePayload covers the three payload shapes a response can carry:
// discovery endpoints, an error type+message, or nothing.
type ResponsePayload struct {
	Endpoints []DiscoveryEndpoint `json:"endpoints,omitempty"`
	Type      string              `json:"type,omitempty"`
	Message   string              `json:"message,omitempty"`
}

type DiscoveryEndpoint struct {
	EndpointID        string       `json:"endpointId"`
	ManufacturerName  string       `json:"manufacturerName"`
	FriendlyName      string       `json:"friendlyName"`
	Description       string       `json:"description"`
	DisplayCategories []string     `json:"displayCategories"`
	Capabilities      []Capability `json:"capabilities"`
}

// IDGenerator produces message ids for response envelopes.
type IDGenerator interface {
	NewID() string
}

// Clock samples the time reported on context properties.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator is the production IDGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedIDGenerator returns the same id on every call, for deterministic
// envelopes in tests.
type FixedIDGenerator string

func (g FixedIDGenerator) NewID() string { return string(g) }

// FixedClock returns the same instant on every call.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// EnvelopeBuilder assembles response envelopes. Id and timestamp strategies
// are fixed at construction; the builder holds no per-request state.
type EnvelopeBuilder struct {
	ids   IDGenerator
	clock Clock
}

// NewEnvelopeBuilder creates a builder. Nil strategies fall back to the
// production implementations.
func NewEnvelopeBuilder(ids IDGenerator, clock Clock) *EnvelopeBuilder {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &EnvelopeBuilder{ids: ids, clock: clock}
}

func (b *EnvelopeBuilder) header(namespace, name, correlationToken string) Header {
	return Header{
		Namespace:        namespace,
		Name:             name,
		PayloadVersion:   PayloadVersion,
		MessageID:        b.ids.NewID(),
		CorrelationToken: correlationToken,
	}
}

func (b *EnvelopeBuilder) timeOfSample() string {
	return b.clock.Now().UTC().Format(timestampLayout)
}

// AcceptGrantResponse acknowledges an authorization grant. The payload is an
// explicit empty object.
func (b *EnvelopeBuilder) AcceptGrantResponse() Response {
	return Response{
		Event: Event{
			Header:  b.header(NamespaceAuthorization, "AcceptGrant.Response", ""),
			Payload: &ResponsePayload{},
		},
	}
}

// DiscoverResponse lists the discovered endpoints in the order given.
func (b *EnvelopeBuilder) DiscoverResponse(correlationToken string, endpoints []DiscoveryEndpoint) Response {
	return Response{
		Event: Event{
			Header:  b.header(NamespaceDiscovery, "Discover.Response", correlationToken),
			Payload: &ResponsePayload{Endpoints: endpoints},
		},
	}
}

// ControlResponse reports the observed state after a successful control
// action, echoing the directive's correlation token and endpoint. The
// property is stamped with the sample time and the fixed uncertainty.
func (b *EnvelopeBuilder) ControlResponse(correlationToken string, endpoint ResponseEndpoint, prop Property) Response {
	prop.TimeOfSample = b.timeOfSample()
	prop.UncertaintyInMilliseconds = UncertaintyMillis
	return Response{
		Context: &Context{Properties: []Property{prop}},
		Event: Event{
			Header:   b.header(NamespaceAlexa, "Response", correlationToken),
			Endpoint: &endpoint,
		},
	}
}

// ErrorResponse is the single outward error shape. It carries no correlation
// token, context or endpoint, and never discloses the failure cause.
func (b *EnvelopeBuilder) ErrorResponse() Response {
	return Response{
		Event: Event{
			Header: b.header(NamespaceAlexa, "ErrorResponse", ""),
			Payload: &ResponsePayload{
				Type:    errorTypeInvalidDirective,
				Message: errorMessageInvalid,
			},
		},
	}
}
