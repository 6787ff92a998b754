package domain_test

import (
	"slices"
	"testing"

	"smart-home-alexaskill/internal/domain"
)

func TestDeviceType_Category(t *testing.T) {
	tests := []struct {
		devType domain.DeviceType
		want    domain.DeviceCategory
	}{
		{domain.DeviceTypeLightSwitch, domain.CategoryLight},
		{domain.DeviceTypeDimmer, domain.CategoryLight},
		{domain.DeviceTypeRollerShutter, domain.CategoryExteriorBlind},
		{domain.DeviceTypeHeating, domain.CategoryThermostat},
		{domain.DeviceTypeAlarm, domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.devType), func(t *testing.T) {
			if got := tt.devType.Category(); got != tt.want {
				t.Errorf("category: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeviceType_Capabilities(t *testing.T) {
	tests := []struct {
		devType domain.DeviceType
		want    []domain.DeviceCapability
	}{
		{domain.DeviceTypeLightSwitch, []domain.DeviceCapability{domain.CapabilityPowerState}},
		{domain.DeviceTypeDimmer, []domain.DeviceCapability{domain.CapabilityPowerState, domain.CapabilityPercentage}},
		{domain.DeviceTypeRollerShutter, []domain.DeviceCapability{domain.CapabilityPowerState, domain.CapabilityPercentage}},
		{domain.DeviceTypeHeating, []domain.DeviceCapability{domain.CapabilityThermostat}},
		{domain.DeviceTypeAlarm, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.devType), func(t *testing.T) {
			if got := tt.devType.Capabilities(); !slices.Equal(got, tt.want) {
				t.Errorf("capabilities: got %v, want %v", got, tt.want)
			}
		})
	}
}
