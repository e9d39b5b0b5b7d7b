package vehicle

import "fmt"

// StatusCode classifies the outcome of a single request or a whole batch.
type StatusCode int32

const (
	StatusOK StatusCode = iota
	StatusTryAgain
	StatusInvalidArg
	StatusNotAvailable
	StatusAccessDenied
	StatusInternalError
)

func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTryAgain:
		return "try_again"
	case StatusInvalidArg:
		return "invalid_arg"
	case StatusNotAvailable:
		return "not_available"
	case StatusAccessDenied:
		return "access_denied"
	case StatusInternalError:
		return "internal_error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// PropStatus is the availability state carried by a stored property value.
type PropStatus int32

const (
	// PropStatusAvailable marks a value the bus could resolve.
	PropStatusAvailable PropStatus = 0
	// PropStatusUnavailable marks a value the bus could not resolve.
	PropStatusUnavailable PropStatus = 1
	// PropStatusError marks a value that failed to resolve.
	PropStatusError PropStatus = 2
)

func (s PropStatus) String() string {
	switch s {
	case PropStatusAvailable:
		return "available"
	case PropStatusUnavailable:
		return "unavailable"
	case PropStatusError:
		return "error"
	default:
		return fmt.Sprintf("prop_status(%d)", int32(s))
	}
}

// RawValue is the typed payload of a property. Exactly the fields matching the
// property's shape are populated; the rest stay at their zero value.
type RawValue struct {
	Int32Values []int32   `yaml:"int32_values,omitempty" json:"int32_values,omitempty"`
	Int64Values []int64   `yaml:"int64_values,omitempty" json:"int64_values,omitempty"`
	FloatValues []float32 `yaml:"float_values,omitempty" json:"float_values,omitempty"`
	StringValue string    `yaml:"string_value,omitempty" json:"string_value,omitempty"`
	ByteValues  []byte    `yaml:"byte_values,omitempty" json:"byte_values,omitempty"`
}

// IsEmpty reports whether no payload field is populated.
func (v RawValue) IsEmpty() bool {
	return len(v.Int32Values) == 0 && len(v.Int64Values) == 0 &&
		len(v.FloatValues) == 0 && v.StringValue == "" && len(v.ByteValues) == 0
}

// Equal compares two payloads field by field.
func (v RawValue) Equal(o RawValue) bool {
	if v.StringValue != o.StringValue {
		return false
	}
	if !int32SlicesEqual(v.Int32Values, o.Int32Values) {
		return false
	}
	if !int64SlicesEqual(v.Int64Values, o.Int64Values) {
		return false
	}
	if !floatSlicesEqual(v.FloatValues, o.FloatValues) {
		return false
	}
	return bytesEqual(v.ByteValues, o.ByteValues)
}

// Clone returns a deep copy so stored payloads never alias caller slices.
func (v RawValue) Clone() RawValue {
	out := RawValue{StringValue: v.StringValue}
	if len(v.Int32Values) > 0 {
		out.Int32Values = append([]int32(nil), v.Int32Values...)
	}
	if len(v.Int64Values) > 0 {
		out.Int64Values = append([]int64(nil), v.Int64Values...)
	}
	if len(v.FloatValues) > 0 {
		out.FloatValues = append([]float32(nil), v.FloatValues...)
	}
	if len(v.ByteValues) > 0 {
		out.ByteValues = append([]byte(nil), v.ByteValues...)
	}
	return out
}

// PropValue is the state of one property for one area.
type PropValue struct {
	Prop      int32      `yaml:"prop" json:"prop"`
	AreaID    int32      `yaml:"area_id,omitempty" json:"area_id,omitempty"`
	Timestamp int64      `yaml:"timestamp,omitempty" json:"timestamp"`
	Status    PropStatus `yaml:"status,omitempty" json:"status"`
	Value     RawValue   `yaml:"value,omitempty" json:"value"`
}

// Clone returns a deep copy of the value.
func (p PropValue) Clone() PropValue {
	out := p
	out.Value = p.Value.Clone()
	return out
}

// EqualIgnoringTimestamp compares identity, status and payload but not the
// write timestamp.
func (p PropValue) EqualIgnoringTimestamp(o PropValue) bool {
	return p.Prop == o.Prop && p.AreaID == o.AreaID && p.Status == o.Status && p.Value.Equal(o.Value)
}

// GetValueRequest asks for the current value of one property/area pair.
type GetValueRequest struct {
	RequestID int64
	Prop      int32
	AreaID    int32
}

// GetValueResult carries the per-item outcome of a get request. Value is only
// populated when Status is StatusOK.
type GetValueResult struct {
	RequestID int64
	Status    StatusCode
	Value     *PropValue
}

// SetValueRequest asks to overwrite one property/area pair.
type SetValueRequest struct {
	RequestID int64
	Value     PropValue
}

// SetValueResult carries the per-item outcome of a set request.
type SetValueResult struct {
	RequestID int64
	Status    StatusCode
}

func int32SlicesEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64SlicesEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatSlicesEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
