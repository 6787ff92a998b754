package application

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"smart-home-alexaskill/internal/domain"
)

// DeviceController is the backend contract for device listing and control.
// Every operation is one network round trip; failures come back as errors
// and are never retried here.
type DeviceController interface {
	ListDevices(ctx context.Context) ([]domain.Device, error)
	SetPowerState(ctx context.Context, deviceID string, state domain.DevicePowerState) error
	SetPercentage(ctx context.Context, deviceID string, percentage int) error
	SetTargetTemperature(ctx context.Context, deviceID string, degrees int) error
}

// Dispatcher translates directives into backend calls and response
// envelopes. It holds no state across invocations; concurrent dispatches
// are independent.
type Dispatcher struct {
	devices    DeviceController
	envelopes  *EnvelopeBuilder
	logger     *slog.Logger
	singleBase bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEnvelopeBuilder replaces the default envelope builder. Tests use it to
// inject fixed id and clock strategies.
func WithEnvelopeBuilder(b *EnvelopeBuilder) Option {
	return func(d *Dispatcher) { d.envelopes = b }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithSingleBaseCapability emits the base "Alexa" capability once per
// discovery endpoint instead of once per device capability.
func WithSingleBaseCapability() Option {
	return func(d *Dispatcher) { d.singleBase = true }
}

func NewDispatcher(devices DeviceController, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		devices:   devices,
		envelopes: NewEnvelopeBuilder(nil, nil),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one directive. It issues at most one backend call and
// always returns an envelope: every failure collapses to the uniform error
// response after the cause is logged.
func (d *Dispatcher) Dispatch(ctx context.Context, directive Directive) Response {
	action, err := ParseDirective(directive)
	if err != nil {
		d.logger.Error("rejecting directive",
			"error", err,
			"namespace", directive.Header.Namespace,
			"name", directive.Header.Name,
		)
		return d.envelopes.ErrorResponse()
	}

	token := directive.Header.CorrelationToken

	switch a := action.(type) {
	case AcceptGrant:
		return d.envelopes.AcceptGrantResponse()

	case Discover:
		devices, err := d.devices.ListDevices(ctx)
		if err != nil {
			d.logger.Error("listing devices", "error", err)
			return d.envelopes.ErrorResponse()
		}
		endpoints := make([]DiscoveryEndpoint, 0, len(devices))
		for _, dev := range devices {
			endpoints = append(endpoints, discoveryEndpoint(dev, d.singleBase))
		}
		d.logger.Info("discovery completed", "endpoints", len(endpoints))
		return d.envelopes.DiscoverResponse(token, endpoints)

	case SetPower:
		if err := d.devices.SetPowerState(ctx, a.EndpointID, a.State); err != nil {
			d.logger.Error("setting power state", "error", err, "device", a.EndpointID)
			return d.envelopes.ErrorResponse()
		}
		return d.controlResponse(a.EndpointID, a.Scope, token, Property{
			Namespace: NamespacePowerController,
			Name:      PropertyPowerState,
			Value:     string(a.State),
		})

	case SetPercentage:
		if err := d.devices.SetPercentage(ctx, a.EndpointID, a.Percentage); err != nil {
			d.logger.Error("setting percentage", "error", err, "device", a.EndpointID)
			return d.envelopes.ErrorResponse()
		}
		return d.controlResponse(a.EndpointID, a.Scope, token, Property{
			Namespace: NamespacePercentageController,
			Name:      PropertyPercentage,
			Value:     strconv.Itoa(a.Percentage),
		})

	case SetTargetTemperature:
		degrees := int(math.Round(a.Value))
		if err := d.devices.SetTargetTemperature(ctx, a.EndpointID, degrees); err != nil {
			d.logger.Error("setting target temperature", "error", err, "device", a.EndpointID)
			return d.envelopes.ErrorResponse()
		}
		return d.controlResponse(a.EndpointID, a.Scope, token, Property{
			Namespace: NamespaceThermostatController,
			Name:      PropertyTargetSetpoint,
			Value:     TargetSetpoint{Value: float64(degrees), Scale: scaleCelsius},
		})

	case UnknownAction:
		d.logger.Warn("unroutable directive", "namespace", a.Namespace)
		return d.envelopes.ErrorResponse()
	}

	return d.envelopes.ErrorResponse()
}

func (d *Dispatcher) controlResponse(endpointID string, scope Scope, token string, prop Property) Response {
	endpoint := ResponseEndpoint{EndpointID: endpointID, Scope: scope}
	return d.envelopes.ControlResponse(token, endpoint, prop)
}

// Reject returns the uniform error envelope for input that never reached
// dispatch, such as bodies failing schema validation or decoding.
func (d *Dispatcher) Reject() Response {
	return d.envelopes.ErrorResponse()
}
