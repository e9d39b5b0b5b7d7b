package vehicle

// Area identifiers. Areas are scoped to a property; a wheel bit and a seat bit
// sharing a numeric value never collide because they are used on different
// properties.
const (
	AreaGlobal int32 = 0

	AreaWheelFrontLeft  int32 = 1 << 0
	AreaWheelFrontRight int32 = 1 << 1
	AreaWheelRearLeft   int32 = 1 << 2
	AreaWheelRearRight  int32 = 1 << 3

	AreaSeatRow1Left  int32 = 1 << 0
	AreaSeatRow1Right int32 = 1 << 2
	AreaSeatRow2Left  int32 = 1 << 4
	AreaSeatRow2Right int32 = 1 << 6
)

// Property identifiers known to the built-in configuration. The high byte
// groups related properties (static info, performance, powertrain, tires,
// HVAC, navigation); the id itself is opaque to the store.
const (
	PropInfoMake         int32 = 0x0101
	PropInfoModel        int32 = 0x0102
	PropInfoModelYear    int32 = 0x0103
	PropInfoVIN          int32 = 0x0104
	PropInfoFuelCapacity int32 = 0x0105

	PropPerfVehicleSpeed int32 = 0x0201
	PropPerfOdometer     int32 = 0x0202
	PropEngineRPM        int32 = 0x0203

	PropFuelLevel               int32 = 0x0301
	PropFuelLevelDisplayPercent int32 = 0x0302
	PropGearSelection           int32 = 0x0303
	PropIgnitionState           int32 = 0x0304
	PropParkingBrakeOn          int32 = 0x0305

	PropTirePressure int32 = 0x0401

	PropHvacTemperatureSet int32 = 0x0501
	PropHvacFanSpeed       int32 = 0x0502
	PropHvacPowerOn        int32 = 0x0503

	PropMapServiceData int32 = 0x0601
)

// Gear selection payload values.
const (
	GearNeutral int32 = 1
	GearReverse int32 = 2
	GearPark    int32 = 4
	GearDrive   int32 = 8
)

// Ignition state payload values.
const (
	IgnitionOff   int32 = 1
	IgnitionAcc   int32 = 2
	IgnitionOn    int32 = 3
	IgnitionStart int32 = 4
)
