package application

import (
	"encoding/json"
	"errors"
	"fmt"

	"smart-home-alexaskill/internal/domain"
)

// Namespaces understood by the dispatcher. Anything else routes to
// UnknownAction.
const (
	NamespaceAlexa                = "Alexa"
	NamespaceAuthorization        = "Alexa.Authorization"
	NamespaceDiscovery            = "Alexa.Discovery"
	NamespacePowerController      = "Alexa.PowerController"
	NamespacePercentageController = "Alexa.PercentageController"
	NamespaceThermostatController = "Alexa.ThermostatController"
)

const nameTurnOn = "TurnOn"

// ErrMalformedDirective marks input that routed to a namespace but lacks a
// field that namespace requires. The caller is in breach of the protocol
// contract; nothing is defaulted on its behalf.
var ErrMalformedDirective = errors.New("malformed directive")

type DirectiveEnvelope struct {
	Directive Directive `json:"directive"`
}

type Directive struct {
	Header   Header             `json:"header"`
	Endpoint *DirectiveEndpoint `json:"endpoint,omitempty"`
	Payload  DirectivePayload   `json:"payload"`
}

type Header struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	PayloadVersion   string `json:"payloadVersion"`
	MessageID        string `json:"messageId"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

type Scope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type DirectiveEndpoint struct {
	EndpointID string            `json:"endpointId"`
	Scope      Scope             `json:"scope"`
	Cookie     map[string]string `json:"cookie,omitempty"`
}

type TargetSetpoint struct {
	Value float64 `json:"value"`
	Scale string  `json:"scale"`
}

// DirectivePayload carries the action-specific fields. They are pointers so
// absence is distinguishable from a zero value.
type DirectivePayload struct {
	Scope          *Scope          `json:"scope,omitempty"`
	Percentage     *int            `json:"percentage,omitempty"`
	TargetSetpoint *TargetSetpoint `json:"targetSetpoint,omitempty"`
}

// DecodeDirective unmarshals a raw directive envelope.
func DecodeDirective(raw []byte) (Directive, error) {
	var env DirectiveEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Directive{}, fmt.Errorf("%w: %v", ErrMalformedDirective, err)
	}
	return env.Directive, nil
}

// Action is one routed directive variant. The set is closed: ParseDirective
// maps every directive to exactly one of the types below.
type Action interface {
	isAction()
}

type AcceptGrant struct{}

type Discover struct{}

type SetPower struct {
	EndpointID string
	Scope      Scope
	State      domain.DevicePowerState
}

type SetPercentage struct {
	EndpointID string
	Scope      Scope
	Percentage int
}

type SetTargetTemperature struct {
	EndpointID string
	Scope      Scope
	Value      float64
}

type UnknownAction struct {
	Namespace string
}

func (AcceptGrant) isAction()          {}
func (Discover) isAction()             {}
func (SetPower) isAction()             {}
func (SetPercentage) isAction()        {}
func (SetTargetTemperature) isAction() {}
func (UnknownAction) isAction()        {}

// ParseDirective routes a directive by namespace into its action variant.
// Fields the selected namespace requires must be present; a directive
// missing them fails with ErrMalformedDirective.
func ParseDirective(d Directive) (Action, error) {
	switch d.Header.Namespace {
	case NamespaceAuthorization:
		return AcceptGrant{}, nil

	case NamespaceDiscovery:
		return Discover{}, nil

	case NamespacePowerController:
		ep, err := requireEndpoint(d)
		if err != nil {
			return nil, err
		}
		state := domain.PowerStateOff
		if d.Header.Name == nameTurnOn {
			state = domain.PowerStateOn
		}
		return SetPower{EndpointID: ep.EndpointID, Scope: ep.Scope, State: state}, nil

	case NamespacePercentageController:
		ep, err := requireEndpoint(d)
		if err != nil {
			return nil, err
		}
		if d.Payload.Percentage == nil {
			return nil, fmt.Errorf("%w: percentage control without percentage", ErrMalformedDirective)
		}
		return SetPercentage{EndpointID: ep.EndpointID, Scope: ep.Scope, Percentage: *d.Payload.Percentage}, nil

	case NamespaceThermostatController:
		ep, err := requireEndpoint(d)
		if err != nil {
			return nil, err
		}
		if d.Payload.TargetSetpoint == nil {
			return nil, fmt.Errorf("%w: thermostat control without target setpoint", ErrMalformedDirective)
		}
		return SetTargetTemperature{EndpointID: ep.EndpointID, Scope: ep.Scope, Value: d.Payload.TargetSetpoint.Value}, nil

	default:
		return UnknownAction{Namespace: d.Header.Namespace}, nil
	}
}

func requireEndpoint(d Directive) (*DirectiveEndpoint, error) {
	if d.Endpoint == nil || d.Endpoint.EndpointID == "" {
		return nil, fmt.Errorf("%w: %s directive without endpoint", ErrMalformedDirective, d.Header.Namespace)
	}
	return d.Endpoint, nil
}
