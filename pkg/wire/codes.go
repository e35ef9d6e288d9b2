package wire

import "fmt"

// Operation identifies a pin-indexed command family. Its value is the
// base offset of the family's 32-code range.
type Operation byte

// Pin-indexed command families.
const (
	// ReadAssignment reads the current assignment or value of a pin.
	ReadAssignment Operation = 0
	// ConfigureInput sets a pin as a digital input.
	ConfigureInput Operation = 32
	// ConfigureInputPullup sets a pin as a digital input with the
	// internal pull-up resistor enabled.
	ConfigureInputPullup Operation = 64
	// ConfigureAnalogInput sets a pin as an analog input.
	ConfigureAnalogInput Operation = 96
	// ConfigureOutput sets a pin as a digital output.
	ConfigureOutput Operation = 128
	// WriteLow drives an output pin low.
	WriteLow Operation = 160
	// WriteHigh drives an output pin high.
	WriteHigh Operation = 192
)

// MaxPin is the highest pin addressable within a command family.
const MaxPin = 31

// IsConfigure indicates the family assigns a pin mode. The device
// echoes the pin number back when such a command succeeds.
func (op Operation) IsConfigure() bool {
	switch op {
	case ConfigureInput, ConfigureInputPullup, ConfigureAnalogInput, ConfigureOutput:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (op Operation) String() string {
	switch op {
	case ReadAssignment:
		return "read"
	case ConfigureInput:
		return "input"
	case ConfigureInputPullup:
		return "input-pullup"
	case ConfigureAnalogInput:
		return "analog-input"
	case ConfigureOutput:
		return "output"
	case WriteLow:
		return "write-low"
	case WriteHigh:
		return "write-high"
	}
	return fmt.Sprintf("operation(%d)", byte(op))
}

// Query is a fixed, pin-independent diagnostic code sent verbatim.
type Query byte

// Fixed diagnostic codes.
const (
	// ResetRequestCount zeroes the device request counter.
	ResetRequestCount Query = 225
	// RequestCount reads the device request counter.
	RequestCount Query = 226
	// EchoTest probes the out-of-band echo mode.
	EchoTest Query = 227
	// LoopCount reads the device main-loop counter.
	LoopCount Query = 228
	// ClearQueues discards any queued device state.
	ClearQueues Query = 229
	// AnalogRangeMin reads the lower bound of the analog auto-range.
	AnalogRangeMin Query = 230
	// AnalogRangeMax reads the upper bound of the analog auto-range.
	AnalogRangeMax Query = 231
	// AutoRangeOff disables analog auto-ranging.
	AutoRangeOff Query = 232
	// AutoRangeOn enables analog auto-ranging.
	AutoRangeOn Query = 233
)

// String implements fmt.Stringer.
func (q Query) String() string {
	switch q {
	case ResetRequestCount:
		return "reset-request-count"
	case RequestCount:
		return "request-count"
	case EchoTest:
		return "echo-test"
	case LoopCount:
		return "loop-count"
	case ClearQueues:
		return "clear-queues"
	case AnalogRangeMin:
		return "analog-range-min"
	case AnalogRangeMax:
		return "analog-range-max"
	case AutoRangeOff:
		return "auto-range-off"
	case AutoRangeOn:
		return "auto-range-on"
	}
	return fmt.Sprintf("query(%d)", byte(q))
}

// The range 240..255 is reserved for codes reported by the device,
// never sent by the host.
const (
	StatusMin = 240
	StatusMax = 255

	// StatusPinUnassigned is reported when reading a pin that has
	// not been configured.
	StatusPinUnassigned = 250
	// StatusPinAssignedOutput is reported when reading a pin that is
	// configured as an output.
	StatusPinAssignedOutput = 251
)
