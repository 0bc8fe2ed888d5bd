package notify

import "fmt"

// Timeout is the expiration policy of a notification. The wire representation
// is a signed 32-bit integer: -1 leaves the timeout to the server, 0 means
// the notification never expires, any other value is a duration in
// milliseconds.
type Timeout int32

const (
	TimeoutDefault Timeout = -1
	TimeoutNever   Timeout = 0
)

// TimeoutMilliseconds builds an explicit expiration. Negative durations are
// clamped to 0 (never expire), the nearest lawful wire value.
func TimeoutMilliseconds(ms int32) Timeout {
	if ms < 0 {
		ms = 0
	}
	return Timeout(ms)
}

// DecodeTimeout maps a wire value back to a Timeout. Values below -1 are not
// valid on the wire and clamp to the server default.
func DecodeTimeout(v int32) Timeout {
	if v < -1 {
		return TimeoutDefault
	}
	return Timeout(v)
}

// Milliseconds returns the wire representation.
func (t Timeout) Milliseconds() int32 { return int32(t) }

func (t Timeout) String() string {
	switch t {
	case TimeoutDefault:
		return "default"
	case TimeoutNever:
		return "never"
	}
	return fmt.Sprintf("%dms", int32(t))
}
