package notify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyNamespace  = "org.freedesktop.Notifications"
	notifyObjectPath = dbus.ObjectPath("/org/freedesktop/Notifications")

	// Alternate names for testing against a scratch endpoint without
	// disturbing the desktop's real notification service.
	debugNamespace  = "fr.llehouerou.Notifications"
	debugObjectPath = dbus.ObjectPath("/fr/llehouerou/Notifications")

	// Every method call waits this long for its reply before failing.
	callTimeout = 2000 * time.Millisecond
)

var (
	busName    = notifyNamespace
	objectPath = notifyObjectPath
)

// UseDebugNamespace switches the package between the production well-known
// name and the debug alternate. It applies to calls made afterwards; not for
// use while handles or servers are live.
func UseDebugNamespace(debug bool) {
	if debug {
		busName = debugNamespace
		objectPath = debugObjectPath
	} else {
		busName = notifyNamespace
		objectPath = notifyObjectPath
	}
}

// Namespace returns the well-known name and interface currently in use.
func Namespace() string { return busName }

// Path returns the object path currently in use.
func Path() dbus.ObjectPath { return objectPath }

// sessionConn opens a private session bus connection. Handles keep one each,
// so a blocking signal wait on one handle cannot interleave with calls made
// through another.
func sessionConn() (*dbus.Conn, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, wrapErr(ErrTransport, "connect to session bus", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, wrapErr(ErrTransport, "authenticate to session bus", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, wrapErr(ErrTransport, "register on session bus", err)
	}
	return conn, nil
}

// notifyCall sends the Notify method call and returns the assigned id.
// replaces is 0 for a new notification. A reply of an unexpected shape yields
// id 0 rather than an error: server non-compliance must not crash the caller.
func notifyCall(conn *dbus.Conn, n *Notification, replaces uint32) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	call := conn.Object(busName, objectPath).CallWithContext(ctx,
		busName+".Notify", 0,
		n.AppName,
		replaces,
		n.Icon,
		n.Summary,
		n.Body,
		n.packActions(),
		n.packHints(),
		n.Timeout.Milliseconds(),
	)
	if call.Err != nil {
		return 0, wrapErr(ErrTransport, "Notify call", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, nil
	}
	return id, nil
}

// closeNotification asks the server to close id. Best-effort: there is
// nothing the caller could do if it fails.
func closeNotification(conn *dbus.Conn, id uint32) {
	conn.Object(busName, objectPath).Call(
		busName+".CloseNotification", dbus.FlagNoReplyExpected, id)
}

// Close asks the server to close the notification with the given id, over a
// fresh session connection. The close itself is fire-and-forget; only
// failing to reach the bus is an error.
func Close(id uint32) error {
	conn, err := sessionConn()
	if err != nil {
		return err
	}
	defer conn.Close()
	closeNotification(conn, id)
	return nil
}

// GetCapabilities lists the capabilities of the running notification server.
// Non-string entries in the reply are skipped.
func GetCapabilities() ([]string, error) {
	conn, err := sessionConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	call := conn.Object(busName, objectPath).CallWithContext(ctx,
		busName+".GetCapabilities", 0)
	if call.Err != nil {
		return nil, wrapErr(ErrTransport, "GetCapabilities call", call.Err)
	}

	caps := []string{}
	if len(call.Body) > 0 {
		switch v := call.Body[0].(type) {
		case []string:
			caps = append(caps, v...)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					caps = append(caps, s)
				}
			}
		}
	}
	return caps, nil
}

// ServerInformation describes the running notification server.
type ServerInformation struct {
	// Name is the product name of the server.
	Name string
	// Vendor is the vendor name.
	Vendor string
	// Version is the server's version string.
	Version string
	// SpecVersion is the notification spec version the server implements.
	SpecVersion string
}

// GetServerInformation queries the running server. Missing or malformed
// reply fields decode to empty strings, never an error.
func GetServerInformation() (ServerInformation, error) {
	conn, err := sessionConn()
	if err != nil {
		return ServerInformation{}, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	call := conn.Object(busName, objectPath).CallWithContext(ctx,
		busName+".GetServerInformation", 0)
	if call.Err != nil {
		return ServerInformation{}, wrapErr(ErrTransport, "GetServerInformation call", call.Err)
	}

	return ServerInformation{
		Name:        stringAt(call.Body, 0),
		Vendor:      stringAt(call.Body, 1),
		Version:     stringAt(call.Body, 2),
		SpecVersion: stringAt(call.Body, 3),
	}, nil
}

func stringAt(body []interface{}, i int) string {
	if i >= len(body) {
		return ""
	}
	s, _ := body[i].(string)
	return s
}

// CheckSpecVersion verifies the server reports a spec version of at least
// minMajor.minMinor.
func CheckSpecVersion(minMajor, minMinor int) error {
	info, err := GetServerInformation()
	if err != nil {
		return err
	}
	major, minor, err := parseSpecVersion(info.SpecVersion)
	if err != nil {
		return err
	}
	if major > minMajor || (major == minMajor && minor >= minMinor) {
		return nil
	}
	return wrapErr(ErrSpecVersion, "server implements spec "+info.SpecVersion, nil)
}

func parseSpecVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return 0, 0, wrapErr(ErrParse, "spec version "+strconv.Quote(v), nil)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, wrapErr(ErrParse, "spec version major", err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, wrapErr(ErrParse, "spec version minor", err)
	}
	return major, minor, nil
}

// StopServer asks an endpoint started with server.Listen to shut down, via
// the Stop control method. Not part of the public notification spec.
func StopServer() error {
	conn, err := sessionConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	call := conn.Object(busName, objectPath).CallWithContext(ctx, busName+".Stop", 0)
	if call.Err != nil {
		return wrapErr(ErrTransport, "Stop call", call.Err)
	}
	return nil
}
