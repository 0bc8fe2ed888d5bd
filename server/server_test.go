package server

import (
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/notify"
)

func TestDecodeNotification(t *testing.T) {
	s := New(nil)

	n := s.decodeNotification("app", 7, "icon", "S", "B",
		[]string{"a1", "L1"},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
		-1)

	assert.Equal(t, "app", n.AppName)
	assert.Equal(t, uint32(7), n.ID)
	assert.Equal(t, "icon", n.Icon)
	assert.Equal(t, "S", n.Summary)
	assert.Equal(t, "B", n.Body)
	assert.Equal(t, []string{"a1", "L1"}, n.Actions)
	assert.Equal(t, notify.TimeoutDefault, n.Timeout)

	hints := n.Hints()
	require.Len(t, hints, 1)
	assert.Equal(t, notify.UrgencyCritical, hints[0])
}

func TestDecodeNotificationUnknownHintSurvives(t *testing.T) {
	s := New(nil)

	n := s.decodeNotification("app", 1, "", "S", "", nil,
		map[string]dbus.Variant{
			"vendor-x": dbus.MakeVariant("payload"),
			"urgency":  dbus.MakeVariant(byte(0)),
		}, 0)

	assert.Len(t, n.Hints(), 2, "unknown hints decode to Custom, others are kept")
}

func TestDecodeNotificationSkipsMalformedHint(t *testing.T) {
	s := New(nil)

	n := s.decodeNotification("app", 1, "", "S", "", nil,
		map[string]dbus.Variant{
			"urgency":   dbus.MakeVariant(byte(9)), // out of range
			"transient": dbus.MakeVariant(true),
		}, 0)

	hints := n.Hints()
	require.Len(t, hints, 1, "a malformed hint is dropped, not fatal")
	assert.Equal(t, notify.Transient(true), hints[0])
}

func TestDecodeNotificationDropsUnpairedAction(t *testing.T) {
	s := New(nil)

	n := s.decodeNotification("app", 1, "", "S", "",
		[]string{"a1", "L1", "dangling"}, nil, 0)

	assert.Equal(t, []string{"a1", "L1"}, n.Actions)
}

func TestNotifyAssignsUniqueIDs(t *testing.T) {
	var mu sync.Mutex
	var seen []uint32
	done := make(chan struct{}, 2)

	s := New(func(n *notify.Notification, _ *ActionSender, _ *CloseSender) {
		mu.Lock()
		seen = append(seen, n.ID)
		mu.Unlock()
		done <- struct{}{}
	})
	e := endpoint{s}

	id1, derr := e.Notify("app", 0, "", "one", "", nil, nil, -1)
	require.Nil(t, derr)
	id2, derr := e.Notify("app", 0, "", "two", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.NotZero(t, id1)
	assert.NotZero(t, id2)
	assert.NotEqual(t, id1, id2, "fresh ids are never reused while the endpoint lives")

	for range [2]struct{}{} {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []uint32{id1, id2}, seen)
}

func TestNotifyReusesSuppliedID(t *testing.T) {
	done := make(chan struct{}, 1)
	s := New(func(*notify.Notification, *ActionSender, *CloseSender) {
		done <- struct{}{}
	})
	e := endpoint{s}

	id, derr := e.Notify("app", 42, "", "replace", "", nil, nil, -1)
	require.Nil(t, derr)
	assert.Equal(t, uint32(42), id)
	<-done
}

func TestNotifyHandlerPanicIsIsolated(t *testing.T) {
	invoked := make(chan struct{}, 2)
	s := New(func(*notify.Notification, *ActionSender, *CloseSender) {
		invoked <- struct{}{}
		panic("handler bug")
	})
	e := endpoint{s}

	_, derr := e.Notify("app", 0, "", "boom", "", nil, nil, -1)
	require.Nil(t, derr)
	_, derr = e.Notify("app", 0, "", "still alive", "", nil, nil, -1)
	require.Nil(t, derr)

	for range [2]struct{}{} {
		select {
		case <-invoked:
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked after a previous panic")
		}
	}
}

func TestSendersAreOneShot(t *testing.T) {
	// nil connection: Send must still consume the one shot without panicking
	a := &ActionSender{id: 1}
	a.Send("first")
	a.Send("second")

	c := &CloseSender{id: 1}
	c.Send(ReasonDismissed)
	c.Send(ReasonExpired)
}

func TestReasonCodes(t *testing.T) {
	assert.Equal(t, Reason(1), ReasonExpired)
	assert.Equal(t, Reason(2), ReasonDismissed)
	assert.Equal(t, Reason(3), ReasonClosedByCall)
	assert.Equal(t, Reason(4), ReasonUndefined)
}

func TestServerDefaults(t *testing.T) {
	s := New(nil)
	assert.Contains(t, s.caps, "actions")
	assert.Equal(t, "1.2", s.info.SpecVersion)
}
