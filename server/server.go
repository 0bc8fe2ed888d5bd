// Package server implements the provider side of the freedesktop
// notification protocol: it owns the well-known bus name, decodes incoming
// Notify calls into notify.Notification values and hands them to a handler.
package server

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/llehouerou/notify"
)

// Reason codes for the NotificationClosed signal.
type Reason uint32

const (
	ReasonExpired      Reason = 1
	ReasonDismissed    Reason = 2
	ReasonClosedByCall Reason = 3
	ReasonUndefined    Reason = 4
)

// stopGrace is how long Stop lets in-flight replies drain before the serving
// loop ends.
const stopGrace = 200 * time.Millisecond

// Handler receives each decoded notification. It runs on its own goroutine,
// after the Notify reply has already been sent, so it may block freely.
// The two senders are one-shot: only the first Send on each has any effect,
// and never sending is fine.
type Handler func(n *notify.Notification, actions *ActionSender, closer *CloseSender)

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithConnection serves on an existing connection instead of opening a
// private session connection. The caller keeps ownership.
func WithConnection(conn *dbus.Conn) Option {
	return func(s *Server) { s.conn = conn; s.ownConn = false }
}

// WithInfo sets what GetServerInformation reports.
func WithInfo(info notify.ServerInformation) Option {
	return func(s *Server) { s.info = info }
}

// WithCapabilities sets what GetCapabilities reports.
func WithCapabilities(caps []string) Option {
	return func(s *Server) { s.caps = caps }
}

// Server is a notification service endpoint. It is a pass-through
// dispatcher: notifications are handed to the handler and forgotten, nothing
// is stored.
type Server struct {
	handler Handler
	conn    *dbus.Conn
	ownConn bool
	log     *zap.Logger
	info    notify.ServerInformation
	caps    []string

	lastID    atomic.Uint32
	stopOnce  sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// New builds a Server around handler.
func New(handler Handler, opts ...Option) *Server {
	s := &Server{
		handler: handler,
		ownConn: true,
		log:     zap.NewNop(),
		info: notify.ServerInformation{
			Name:        "notify",
			Vendor:      "llehouerou",
			Version:     "1.0",
			SpecVersion: "1.2",
		},
		caps: []string{"actions", "body", "body-markup"},
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen claims the well-known name and serves until Stop is called on the
// bus or Close is called locally. It fails if another provider already owns
// the name.
func (s *Server) Listen() error {
	if s.conn == nil {
		conn, err := dbus.SessionBusPrivate()
		if err != nil {
			return fmt.Errorf("connect to session bus: %w", err)
		}
		if err := conn.Auth(nil); err != nil {
			conn.Close()
			return fmt.Errorf("authenticate to session bus: %w", err)
		}
		if err := conn.Hello(); err != nil {
			conn.Close()
			return fmt.Errorf("register on session bus: %w", err)
		}
		s.conn = conn
	}

	name := notify.Namespace()
	reply, err := s.conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s is already owned by another provider", name)
	}

	if err := s.conn.Export(endpoint{s}, notify.Path(), name); err != nil {
		return fmt.Errorf("export notification interface: %w", err)
	}

	s.log.Info("notification endpoint listening",
		zap.String("name", name),
		zap.String("path", string(notify.Path())))

	<-s.done
	return s.release()
}

// Close ends the serving loop and releases bus resources. Safe to call more
// than once and concurrently with Listen.
func (s *Server) Close() error {
	s.stopOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Server) release() error {
	var err error
	s.closeOnce.Do(func() {
		_, err = s.conn.ReleaseName(notify.Namespace())
		if s.ownConn {
			if cerr := s.conn.Close(); err == nil {
				err = cerr
			}
		}
	})
	return err
}

func (s *Server) nextID() uint32 {
	return s.lastID.Add(1)
}

// dispatch runs the handler for one decoded notification. Each call is
// isolated: a panicking handler is logged and does not touch the loop.
func (s *Server) dispatch(n *notify.Notification) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("notification handler panicked",
				zap.Uint32("id", n.ID), zap.Any("panic", r))
		}
	}()
	actions := &ActionSender{conn: s.conn, id: n.ID}
	closer := &CloseSender{conn: s.conn, id: n.ID}
	s.handler(n, actions, closer)
}

func (s *Server) emitClosed(id uint32, reason Reason) {
	// best effort, the signal has no reply
	if err := s.conn.Emit(notify.Path(),
		notify.Namespace()+".NotificationClosed", id, uint32(reason)); err != nil {
		s.log.Warn("emit NotificationClosed", zap.Uint32("id", id), zap.Error(err))
	}
}

// endpoint carries the methods exported on the bus, so Server's own exported
// methods stay off it.
type endpoint struct {
	s *Server
}

// Notify decodes an incoming notification, assigns an id and replies with it
// immediately; the handler runs afterwards on its own goroutine.
func (e endpoint) Notify(appName string, replacesID uint32, icon, summary, body string, actions []string, hints map[string]dbus.Variant, expireTimeout int32) (uint32, *dbus.Error) {
	id := replacesID
	if id == 0 {
		id = e.s.nextID()
	}

	n := e.s.decodeNotification(appName, id, icon, summary, body, actions, hints, expireTimeout)
	go e.s.dispatch(n)

	return id, nil
}

// decodeNotification reverses the client's packing. Absent or malformed
// fields default to empty values; a bad hint is skipped, never fatal.
func (s *Server) decodeNotification(appName string, id uint32, icon, summary, body string, actions []string, hints map[string]dbus.Variant, expireTimeout int32) *notify.Notification {
	n := &notify.Notification{
		AppName: appName,
		Summary: summary,
		Body:    body,
		Icon:    icon,
		Timeout: notify.DecodeTimeout(expireTimeout),
		ID:      id,
	}

	if len(actions)%2 != 0 {
		s.log.Warn("dropping trailing unpaired action",
			zap.Uint32("id", id), zap.Strings("actions", actions))
		actions = actions[:len(actions)-1]
	}
	if len(actions) > 0 {
		n.Actions = append([]string(nil), actions...)
	}

	for key, value := range hints {
		h, err := notify.DecodeHint(key, value)
		if err != nil {
			s.log.Warn("skipping malformed hint",
				zap.Uint32("id", id), zap.String("key", key), zap.Error(err))
			continue
		}
		n.Hint(h)
	}

	return n
}

func (e endpoint) CloseNotification(id uint32) *dbus.Error {
	e.s.emitClosed(id, ReasonClosedByCall)
	return nil
}

func (e endpoint) GetCapabilities() ([]string, *dbus.Error) {
	return e.s.caps, nil
}

func (e endpoint) GetServerInformation() (string, string, string, string, *dbus.Error) {
	info := e.s.info
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Stop is a service-control extension, not part of the public notification
// spec. The grace delay lets the reply to this very call go out before the
// loop ends.
func (e endpoint) Stop() *dbus.Error {
	e.s.log.Info("stop requested")
	time.AfterFunc(stopGrace, func() { e.s.Close() })
	return nil
}

// ActionSender emits the ActionInvoked signal for one notification. It is
// one-shot: only the first Send has any effect.
type ActionSender struct {
	once sync.Once
	conn *dbus.Conn
	id   uint32
}

// Send emits ActionInvoked with the given action key. Best-effort.
func (a *ActionSender) Send(actionKey string) {
	a.once.Do(func() {
		if a.conn == nil {
			return
		}
		_ = a.conn.Emit(notify.Path(),
			notify.Namespace()+".ActionInvoked", a.id, actionKey)
	})
}

// CloseSender emits the NotificationClosed signal for one notification. It
// is one-shot: only the first Send has any effect.
type CloseSender struct {
	once sync.Once
	conn *dbus.Conn
	id   uint32
}

// Send emits NotificationClosed with the given reason. Best-effort.
func (c *CloseSender) Send(reason Reason) {
	c.once.Do(func() {
		if c.conn == nil {
			return
		}
		_ = c.conn.Emit(notify.Path(),
			notify.Namespace()+".NotificationClosed", c.id, uint32(reason))
	})
}
