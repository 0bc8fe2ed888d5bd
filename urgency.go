package notify

import "github.com/godbus/dbus/v5"

// Urgency represents notification priority levels per the freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	}
	return "unknown"
}

// Urgency doubles as the "urgency" hint.

func (u Urgency) Key() string { return hintUrgency }

func (u Urgency) encode() dbus.Variant { return dbus.MakeVariant(byte(u)) }

// decodeUrgency accepts only the three byte values the spec defines.
func decodeUrgency(v dbus.Variant) (Urgency, error) {
	b, ok := v.Value().(byte)
	if !ok {
		return 0, wrapErr(ErrParse, "urgency hint is not a byte", nil)
	}
	if b > byte(UrgencyCritical) {
		return 0, wrapErr(ErrParse, "urgency byte out of range", nil)
	}
	return Urgency(b), nil
}
