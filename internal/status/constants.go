// internal/status/constants.go
package status

// Telemetry source health layout.
// Codes are stable: they are exposed on the API and as a metric value.

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a source delivering complete ticks.
const HealthOK uint16 = 1

// HealthError represents a source whose last poll failed.
const HealthError uint16 = 2

// HealthStale represents a source that has stopped reporting.
const HealthStale uint16 = 3

// HealthDisabled represents a source that is configured off.
const HealthDisabled uint16 = 4

// ---- ERROR CODES ----

// ErrCodeNone is reported while healthy.
const ErrCodeNone uint16 = 0

// ErrCodeGeneric is reported when an error exposes no code.
const ErrCodeGeneric uint16 = 1

// ErrCodeTimeout is reported for deadline expiry.
const ErrCodeTimeout uint16 = 2

// ErrCodeTickShape is reported when a tick does not cover exactly the registered channels.
const ErrCodeTickShape uint16 = 3

// ErrCodeNoSignal is reported when a probe reads zero (disconnected).
const ErrCodeNoSignal uint16 = 4

// ErrCodeOutOfRange is reported when a raw reading exceeds the ADC range.
const ErrCodeOutOfRange uint16 = 5

// ErrCodeModbusBase offsets Modbus exception codes (0x100 + exception).
const ErrCodeModbusBase uint16 = 0x100

// ---- LIMITS ----

// SecondsInErrorMax is where the error counter saturates.
const SecondsInErrorMax uint16 = 65535

// ---- REGISTER BLOCK ----

// Register mirror layout. Protocol-locked.

// SlotsPerBlock is the number of holding registers in the mirror.
const SlotsPerBlock = 3

// SlotHealthCode holds the health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the source has been in error.
const SlotSecondsInError = 2
