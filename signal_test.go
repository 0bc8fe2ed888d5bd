package notify

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIface = "org.freedesktop.Notifications"
	testPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
)

func actionSignal(id uint32, action string) *dbus.Signal {
	return &dbus.Signal{
		Path: testPath,
		Name: testIface + ".ActionInvoked",
		Body: []interface{}{id, action},
	}
}

func closedSignal(id uint32, reason uint32) *dbus.Signal {
	return &dbus.Signal{
		Path: testPath,
		Name: testIface + ".NotificationClosed",
		Body: []interface{}{id, reason},
	}
}

func TestWatchSignalsIgnoresUnrelatedThenMatches(t *testing.T) {
	ch := make(chan *dbus.Signal, 8)
	ch <- actionSignal(3, "ignore")
	ch <- &dbus.Signal{Path: testPath, Name: testIface + ".Irrelevant", Body: []interface{}{uint32(7)}}
	ch <- actionSignal(7, "open")
	ch <- actionSignal(7, "late") // after the match the loop is done

	var got []string
	err := watchSignals(context.Background(), ch, 7, testIface, testPath, func(action string) {
		got = append(got, action)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, got, "callback fires exactly once, with the matching action")
}

func TestWatchSignalsClosedSentinel(t *testing.T) {
	ch := make(chan *dbus.Signal, 2)
	ch <- closedSignal(9, 2)

	var got string
	err := watchSignals(context.Background(), ch, 9, testIface, testPath, func(action string) {
		got = action
	})
	require.NoError(t, err)
	assert.Equal(t, ClosedAction, got)
}

func TestWatchSignalsIgnoresOtherPaths(t *testing.T) {
	ch := make(chan *dbus.Signal, 2)
	ch <- &dbus.Signal{
		Path: dbus.ObjectPath("/somewhere/else"),
		Name: testIface + ".ActionInvoked",
		Body: []interface{}{uint32(7), "open"},
	}
	ch <- actionSignal(7, "open")

	var got string
	err := watchSignals(context.Background(), ch, 7, testIface, testPath, func(action string) {
		got = action
	})
	require.NoError(t, err)
	assert.Equal(t, "open", got)
}

func TestWatchSignalsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch := make(chan *dbus.Signal)
	err := watchSignals(ctx, ch, 7, testIface, testPath, func(string) {
		t.Fatal("callback must not fire on cancellation")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatchSignalsStreamClosed(t *testing.T) {
	ch := make(chan *dbus.Signal)
	close(ch)

	err := watchSignals(context.Background(), ch, 7, testIface, testPath, func(string) {
		t.Fatal("callback must not fire on a dead stream")
	})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestActionForSignalMalformedBodies(t *testing.T) {
	// too few fields
	_, ok := actionForSignal(&dbus.Signal{Path: testPath, Name: testIface + ".ActionInvoked", Body: []interface{}{uint32(7)}}, 7, testIface, testPath)
	assert.False(t, ok)

	// wrong field types
	_, ok = actionForSignal(&dbus.Signal{Path: testPath, Name: testIface + ".ActionInvoked", Body: []interface{}{"7", "open"}}, 7, testIface, testPath)
	assert.False(t, ok)

	_, ok = actionForSignal(nil, 7, testIface, testPath)
	assert.False(t, ok)
}
