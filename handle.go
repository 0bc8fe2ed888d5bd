package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// Handle is the live, owned reference to a shown notification.
//
// It keeps its own bus connection alive, which certain desktops require for
// action signals to be delivered. A Handle is not safe for concurrent use:
// the connection belongs to one caller at a time, and a handle should be
// treated as consumed once Close returns.
type Handle struct {
	id           uint32
	conn         *dbus.Conn
	notification *Notification
}

// ID returns the id most recently acknowledged by the server.
func (h *Handle) ID() uint32 { return h.id }

// Notification returns the notification this handle represents. Mutate it
// and call Update to replace the on-screen notification.
func (h *Handle) Notification() *Notification { return h.notification }

// Close asks the server to close the notification, then releases the
// connection. The request is best-effort; local cleanup happens regardless.
func (h *Handle) Close() error {
	closeNotification(h.conn, h.id)
	return h.conn.Close()
}

// Update re-sends the handle's notification with its current id, replacing
// the remote notification. On success the handle adopts whatever id the
// reply carries; servers normally keep it, but may reassign.
//
// Some servers only really replace the old message if the appname also
// changes; plasma5 is known for this.
func (h *Handle) Update() error {
	id, err := notifyCall(h.conn, h.notification, h.id)
	if err != nil {
		return err
	}
	h.id = id
	return nil
}

// WaitForAction blocks until the user acts on the notification or it is
// closed, then calls fn once with the action identifier, or ClosedAction if
// the notification was closed. There is no built-in deadline; cancel ctx to
// stop waiting.
func (h *Handle) WaitForAction(ctx context.Context, fn func(action string)) error {
	return waitForActionSignal(ctx, h.conn, h.id, fn)
}

// OnClose blocks until the notification is closed, then calls fn. Actions
// invoked before the close terminate the wait without invoking fn.
func (h *Handle) OnClose(ctx context.Context, fn func()) error {
	return h.WaitForAction(ctx, func(action string) {
		if action == ClosedAction {
			fn()
		}
	})
}
