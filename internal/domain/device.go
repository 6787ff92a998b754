package domain

type DeviceType string

const (
	DeviceTypeLightSwitch   DeviceType = "LIGHT_SWITCH"
	DeviceTypeDimmer        DeviceType = "DIMMER"
	DeviceTypeRollerShutter DeviceType = "ROLLER_SHUTTER"
	DeviceTypeHeating       DeviceType = "HEATING"
	DeviceTypeAlarm         DeviceType = "ALARM"
)

type DeviceCategory string

const (
	CategoryLight         DeviceCategory = "LIGHT"
	CategoryExteriorBlind DeviceCategory = "EXTERIOR_BLIND"
	CategoryThermostat    DeviceCategory = "THERMOSTAT"
	CategoryOther         DeviceCategory = "OTHER"
)

type DeviceCapability string

const (
	CapabilityPowerState DeviceCapability = "POWER_STATE"
	CapabilityPercentage DeviceCapability = "PERCENTAGE"
	CapabilityThermostat DeviceCapability = "THERMOSTAT"
)

type DevicePowerState string

const (
	PowerStateOn  DevicePowerState = "ON"
	PowerStateOff DevicePowerState = "OFF"
)

type Device struct {
	ID   string
	Name string
	Type DeviceType
}

func (t DeviceType) Category() DeviceCategory {
	switch t {
	case DeviceTypeLightSwitch, DeviceTypeDimmer:
		return CategoryLight
	case DeviceTypeRollerShutter:
		return CategoryExteriorBlind
	case DeviceTypeHeating:
		return CategoryThermostat
	default:
		return CategoryOther
	}
}

// Capabilities returns what the device type can do, in a fixed order.
func (t DeviceType) Capabilities() []DeviceCapability {
	switch t {
	case DeviceTypeLightSwitch:
		return []DeviceCapability{CapabilityPowerState}
	case DeviceTypeDimmer, DeviceTypeRollerShutter:
		return []DeviceCapability{CapabilityPowerState, CapabilityPercentage}
	case DeviceTypeHeating:
		return []DeviceCapability{CapabilityThermostat}
	default:
		return nil
	}
}
