package application

import "smart-home-alexaskill/internal/domain"

const (
	capabilityTypeInterface = "AlexaInterface"

	// Fixed strings on every discovery endpoint.
	discoveryManufacturer = "smart-home"
	discoveryDescription  = "Smart Home Device"
)

// Property names reported back on control responses and declared during
// discovery.
const (
	PropertyPowerState     = "powerState"
	PropertyPercentage     = "percentage"
	PropertyTargetSetpoint = "targetSetpoint"
)

type Capability struct {
	Type       string                `json:"type"`
	Interface  string                `json:"interface"`
	Version    string                `json:"version"`
	Properties *CapabilityProperties `json:"properties,omitempty"`
}

type CapabilityProperties struct {
	Supported []SupportedProperty `json:"supported"`
}

type SupportedProperty struct {
	Name string `json:"name"`
}

// The shared descriptors, built once per process and reused by reference in
// every discovery response. Treated as read-only.
var (
	baseCapability = Capability{
		Type:      capabilityTypeInterface,
		Interface: NamespaceAlexa,
		Version:   PayloadVersion,
	}

	powerCapability = Capability{
		Type:      capabilityTypeInterface,
		Interface: NamespacePowerController,
		Version:   PayloadVersion,
		Properties: &CapabilityProperties{
			Supported: []SupportedProperty{{Name: PropertyPowerState}},
		},
	}

	percentageCapability = Capability{
		Type:      capabilityTypeInterface,
		Interface: NamespacePercentageController,
		Version:   PayloadVersion,
		Properties: &CapabilityProperties{
			Supported: []SupportedProperty{{Name: PropertyPercentage}},
		},
	}

	thermostatCapability = Capability{
		Type:      capabilityTypeInterface,
		Interface: NamespaceThermostatController,
		Version:   PayloadVersion,
		Properties: &CapabilityProperties{
			Supported: []SupportedProperty{{Name: PropertyTargetSetpoint}},
		},
	}
)

func capabilityDescriptor(c domain.DeviceCapability) (Capability, bool) {
	switch c {
	case domain.CapabilityPowerState:
		return powerCapability, true
	case domain.CapabilityPercentage:
		return percentageCapability, true
	case domain.CapabilityThermostat:
		return thermostatCapability, true
	default:
		return Capability{}, false
	}
}

// discoveryEndpoint builds the discovery entry for one device. With
// singleBase false the base "Alexa" descriptor is appended before each
// specific descriptor, repeating it for multi-capability devices; that
// matches the historical discovery output and stays the default. With
// singleBase true the base descriptor appears exactly once per endpoint.
func discoveryEndpoint(dev domain.Device, singleBase bool) DiscoveryEndpoint {
	caps := dev.Type.Capabilities()

	list := make([]Capability, 0, 2*len(caps)+1)
	if singleBase {
		list = append(list, baseCapability)
	}
	for _, c := range caps {
		if !singleBase {
			list = append(list, baseCapability)
		}
		if desc, ok := capabilityDescriptor(c); ok {
			list = append(list, desc)
		}
	}

	return DiscoveryEndpoint{
		EndpointID:        dev.ID,
		ManufacturerName:  discoveryManufacturer,
		FriendlyName:      dev.Name,
		Description:       discoveryDescription,
		DisplayCategories: []string{string(dev.Type.Category())},
		Capabilities:      list,
	}
}
