package config

import "github.com/timzifer/vehiclesim/vehicle"

func floatValue(v float32) *vehicle.RawValue {
	return &vehicle.RawValue{FloatValues: []float32{v}}
}

func int32Value(v int32) *vehicle.RawValue {
	return &vehicle.RawValue{Int32Values: []int32{v}}
}

func stringValue(v string) *vehicle.RawValue {
	return &vehicle.RawValue{StringValue: v}
}

var wheelAreas = []AreaConfig{
	{AreaID: vehicle.AreaWheelFrontLeft, Name: "wheel_front_left"},
	{AreaID: vehicle.AreaWheelFrontRight, Name: "wheel_front_right"},
	{AreaID: vehicle.AreaWheelRearLeft, Name: "wheel_rear_left"},
	{AreaID: vehicle.AreaWheelRearRight, Name: "wheel_rear_right"},
}

var seatAreas = []AreaConfig{
	{AreaID: vehicle.AreaSeatRow1Left, Name: "seat_row1_left"},
	{AreaID: vehicle.AreaSeatRow1Right, Name: "seat_row1_right"},
	{AreaID: vehicle.AreaSeatRow2Left, Name: "seat_row2_left"},
	{AreaID: vehicle.AreaSeatRow2Right, Name: "seat_row2_right"},
}

// DefaultProperties returns the built-in property table used when no
// configuration file declares its own. Values are fresh copies; callers may
// mutate the result.
func DefaultProperties() []PropertyConfig {
	return []PropertyConfig{
		{
			Prop:         vehicle.PropInfoMake,
			Name:         "info_make",
			InitialValue: stringValue("Toy Vehicle"),
		},
		{
			Prop:         vehicle.PropInfoModel,
			Name:         "info_model",
			InitialValue: stringValue("Speedy Model"),
		},
		{
			Prop:         vehicle.PropInfoModelYear,
			Name:         "info_model_year",
			InitialValue: int32Value(2026),
		},
		{
			Prop:         vehicle.PropInfoVIN,
			Name:         "info_vin",
			InitialValue: stringValue("1GCARVIN123456789"),
		},
		{
			Prop:         vehicle.PropInfoFuelCapacity,
			Name:         "info_fuel_capacity",
			InitialValue: floatValue(15000),
		},
		{
			Prop:         vehicle.PropPerfVehicleSpeed,
			Name:         "perf_vehicle_speed",
			InitialValue: floatValue(0),
		},
		{
			Prop:         vehicle.PropPerfOdometer,
			Name:         "perf_odometer",
			InitialValue: floatValue(0),
		},
		{
			Prop:         vehicle.PropEngineRPM,
			Name:         "engine_rpm",
			InitialValue: floatValue(0),
		},
		{
			Prop:         vehicle.PropFuelLevel,
			Name:         "fuel_level",
			InitialValue: floatValue(15000),
		},
		{
			Prop:         vehicle.PropFuelLevelDisplayPercent,
			Name:         "fuel_level_display_percent",
			InitialValue: floatValue(100),
		},
		{
			Prop:         vehicle.PropGearSelection,
			Name:         "gear_selection",
			InitialValue: int32Value(vehicle.GearPark),
		},
		{
			Prop:         vehicle.PropIgnitionState,
			Name:         "ignition_state",
			InitialValue: int32Value(vehicle.IgnitionOn),
		},
		{
			Prop:         vehicle.PropParkingBrakeOn,
			Name:         "parking_brake_on",
			InitialValue: int32Value(1),
		},
		{
			Prop:  vehicle.PropTirePressure,
			Name:  "tire_pressure",
			Areas: wheelAreas,
			InitialAreaValues: map[int32]vehicle.RawValue{
				vehicle.AreaWheelFrontLeft:  {FloatValues: []float32{200}},
				vehicle.AreaWheelFrontRight: {FloatValues: []float32{200}},
				vehicle.AreaWheelRearLeft:   {FloatValues: []float32{200}},
				vehicle.AreaWheelRearRight:  {FloatValues: []float32{200}},
			},
		},
		{
			Prop:         vehicle.PropHvacTemperatureSet,
			Name:         "hvac_temperature_set",
			Areas:        seatAreas,
			InitialValue: floatValue(22),
			InitialAreaValues: map[int32]vehicle.RawValue{
				vehicle.AreaSeatRow1Left:  {FloatValues: []float32{21.5}},
				vehicle.AreaSeatRow1Right: {FloatValues: []float32{22.5}},
			},
		},
		{
			Prop:         vehicle.PropHvacFanSpeed,
			Name:         "hvac_fan_speed",
			Areas:        seatAreas,
			InitialValue: int32Value(3),
		},
		{
			// No initial value: reads as not available until first set.
			Prop:  vehicle.PropHvacPowerOn,
			Name:  "hvac_power_on",
			Areas: seatAreas,
		},
		{
			// Map service payload has no meaningful default.
			Prop: vehicle.PropMapServiceData,
			Name: "map_service_data",
		},
	}
}

// DefaultRules returns the linked-property rules that accompany the built-in
// table: the fuel display percentage follows the raw fuel level.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{
			ID:         "fuel_display_percent",
			Trigger:    PropertyRef{Prop: vehicle.PropFuelLevel},
			Target:     PropertyRef{Prop: vehicle.PropFuelLevelDisplayPercent},
			Expression: "clamp(value / 15000.0 * 100.0, 0.0, 100.0)",
			Type:       "float",
		},
	}
}
