package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// ClosedAction is the sentinel passed to a WaitForAction callback when the
// notification was closed instead of acted on.
const ClosedAction = "__closed"

// waitForActionSignal blocks until a signal for id arrives or ctx is
// cancelled, then invokes fn exactly once with the action identifier (or
// ClosedAction). Signals for other ids, other members or other paths are
// discarded and the wait continues.
func waitForActionSignal(ctx context.Context, conn *dbus.Conn, id uint32, fn func(action string)) error {
	pathAndIface := []dbus.MatchOption{
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(busName),
	}
	for _, member := range []string{"ActionInvoked", "NotificationClosed"} {
		opts := append([]dbus.MatchOption{dbus.WithMatchMember(member)}, pathAndIface...)
		if err := conn.AddMatchSignal(opts...); err != nil {
			return wrapErr(ErrTransport, "register signal match", err)
		}
	}

	ch := make(chan *dbus.Signal, 16)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	return watchSignals(ctx, ch, id, busName, objectPath, fn)
}

// watchSignals is the correlator loop, split from the connection plumbing so
// it can run against any signal stream.
func watchSignals(ctx context.Context, ch <-chan *dbus.Signal, id uint32, iface string, path dbus.ObjectPath, fn func(action string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return wrapErr(ErrTransport, "signal stream closed", nil)
			}
			if action, ok := actionForSignal(sig, id, iface, path); ok {
				fn(action)
				return nil
			}
		}
	}
}

// actionForSignal reports the action carried by sig when it is an
// ActionInvoked or NotificationClosed signal targeting id.
func actionForSignal(sig *dbus.Signal, id uint32, iface string, path dbus.ObjectPath) (string, bool) {
	if sig == nil || sig.Path != path {
		return "", false
	}
	switch sig.Name {
	case iface + ".ActionInvoked":
		if len(sig.Body) < 2 {
			return "", false
		}
		sigID, okID := sig.Body[0].(uint32)
		action, okAction := sig.Body[1].(string)
		if okID && okAction && sigID == id {
			return action, true
		}
	case iface + ".NotificationClosed":
		if len(sig.Body) < 1 {
			return "", false
		}
		if sigID, ok := sig.Body[0].(uint32); ok && sigID == id {
			return ClosedAction, true
		}
	}
	return "", false
}
