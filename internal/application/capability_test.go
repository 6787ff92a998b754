package application_test

import (
	"context"
	"slices"
	"testing"

	"smart-home-alexaskill/internal/application"
	"smart-home-alexaskill/internal/domain"
)

func discoverOne(t *testing.T, dev domain.Device, opts ...application.Option) application.DiscoveryEndpoint {
	t.Helper()

	controller := &mockController{devices: []domain.Device{dev}}
	dispatcher := newTestDispatcher(controller, opts...)

	resp := dispatcher.Dispatch(context.Background(), application.Directive{
		Header: application.Header{
			Namespace:      application.NamespaceDiscovery,
			Name:           "Discover",
			PayloadVersion: "3",
			MessageID:      "in-1",
		},
	})

	if resp.Event.Payload == nil || len(resp.Event.Payload.Endpoints) != 1 {
		t.Fatalf("expected one discovered endpoint, got %+v", resp.Event.Payload)
	}
	return resp.Event.Payload.Endpoints[0]
}

func interfaces(capabilities []application.Capability) []string {
	names := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		names = append(names, c.Interface)
	}
	return names
}

func TestDiscoveryEndpoint_Metadata(t *testing.T) {
	ep := discoverOne(t, domain.Device{ID: "d1", Name: "Hall Light", Type: domain.DeviceTypeLightSwitch})

	if ep.EndpointID != "d1" {
		t.Errorf("endpoint id: got %s, want d1", ep.EndpointID)
	}
	if ep.FriendlyName != "Hall Light" {
		t.Errorf("friendly name: got %s, want Hall Light", ep.FriendlyName)
	}
	if ep.ManufacturerName != "smart-home" {
		t.Errorf("manufacturer: got %s, want smart-home", ep.ManufacturerName)
	}
	if ep.Description != "Smart Home Device" {
		t.Errorf("description: got %s, want Smart Home Device", ep.Description)
	}
	if len(ep.DisplayCategories) != 1 || ep.DisplayCategories[0] != "LIGHT" {
		t.Errorf("display categories: got %v, want [LIGHT]", ep.DisplayCategories)
	}
}

func TestDiscoveryEndpoint_Capabilities(t *testing.T) {
	tests := []struct {
		devType        domain.DeviceType
		wantCategory   string
		wantInterfaces []string
	}{
		{domain.DeviceTypeLightSwitch, "LIGHT", []string{"Alexa", "Alexa.PowerController"}},
		{domain.DeviceTypeDimmer, "LIGHT", []string{"Alexa", "Alexa.PowerController", "Alexa", "Alexa.PercentageController"}},
		{domain.DeviceTypeRollerShutter, "EXTERIOR_BLIND", []string{"Alexa", "Alexa.PowerController", "Alexa", "Alexa.PercentageController"}},
		{domain.DeviceTypeHeating, "THERMOSTAT", []string{"Alexa", "Alexa.ThermostatController"}},
		{domain.DeviceTypeAlarm, "OTHER", []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.devType), func(t *testing.T) {
			ep := discoverOne(t, domain.Device{ID: "d1", Name: "Device", Type: tt.devType})

			if len(ep.DisplayCategories) != 1 || ep.DisplayCategories[0] != tt.wantCategory {
				t.Errorf("display categories: got %v, want [%s]", ep.DisplayCategories, tt.wantCategory)
			}
			if got := interfaces(ep.Capabilities); !slices.Equal(got, tt.wantInterfaces) {
				t.Errorf("interfaces: got %v, want %v", got, tt.wantInterfaces)
			}
		})
	}
}

func TestDiscoveryEndpoint_SingleBaseCapability(t *testing.T) {
	tests := []struct {
		devType        domain.DeviceType
		wantInterfaces []string
	}{
		{domain.DeviceTypeLightSwitch, []string{"Alexa", "Alexa.PowerController"}},
		{domain.DeviceTypeDimmer, []string{"Alexa", "Alexa.PowerController", "Alexa.PercentageController"}},
		{domain.DeviceTypeRollerShutter, []string{"Alexa", "Alexa.PowerController", "Alexa.PercentageController"}},
		{domain.DeviceTypeHeating, []string{"Alexa", "Alexa.ThermostatController"}},
		{domain.DeviceTypeAlarm, []string{"Alexa"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.devType), func(t *testing.T) {
			ep := discoverOne(t, domain.Device{ID: "d1", Name: "Device", Type: tt.devType},
				application.WithSingleBaseCapability())

			if got := interfaces(ep.Capabilities); !slices.Equal(got, tt.wantInterfaces) {
				t.Errorf("interfaces: got %v, want %v", got, tt.wantInterfaces)
			}
		})
	}
}

func TestDiscoveryEndpoint_CapabilityShape(t *testing.T) {
	ep := discoverOne(t, domain.Device{ID: "d1", Name: "Device", Type: domain.DeviceTypeHeating})

	if len(ep.Capabilities) != 2 {
		t.Fatalf("capabilities: got %d, want 2", len(ep.Capabilities))
	}

	base := ep.Capabilities[0]
	if base.Type != "AlexaInterface" || base.Interface != "Alexa" || base.Version != "3" {
		t.Errorf("base capability: got %+v", base)
	}
	if base.Properties != nil {
		t.Errorf("base capability must not list properties, got %+v", base.Properties)
	}

	thermostat := ep.Capabilities[1]
	if thermostat.Interface != application.NamespaceThermostatController || thermostat.Version != "3" {
		t.Errorf("thermostat capability: got %+v", thermostat)
	}
	if thermostat.Properties == nil || len(thermostat.Properties.Supported) != 1 {
		t.Fatalf("thermostat capability must support one property, got %+v", thermostat.Properties)
	}
	if thermostat.Properties.Supported[0].Name != application.PropertyTargetSetpoint {
		t.Errorf("supported property: got %s, want targetSetpoint", thermostat.Properties.Supported[0].Name)
	}
}
