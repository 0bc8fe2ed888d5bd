// Package notify sends desktop notifications over D-Bus per the freedesktop
// notification spec, and correlates the action/close signals a server emits
// back to the notification they belong to.
//
// A Notification is configured field by field or through the chained helper
// methods, then launched with Show, which returns a Handle for closing,
// updating and waiting on it.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/godbus/dbus/v5"
)

// Notification is a desktop notification under construction.
//
// The zero value is usable; New additionally fills AppName with the name of
// the current executable, which some desktops use to group notifications.
type Notification struct {
	// AppName identifies the sending application.
	AppName string
	// Summary is the single title line. Required by most servers.
	Summary string
	// Subtitle is not part of the XDG spec and is ignored by D-Bus servers;
	// it is kept so notifications stay portable to backends that have one.
	Subtitle string
	// Body is the multi-line content. Servers may support simple markup,
	// check GetCapabilities for "body-markup".
	Body string
	// Icon is a themeable icon name or an absolute file path.
	Icon string
	// Actions alternate identifier and label; the length is always even.
	// Use Action to append pairs.
	Actions []string
	// Timeout is the expiration policy, TimeoutDefault unless set.
	Timeout Timeout
	// ID preassigns the notification id. 0 lets the server assign one on
	// first display; a Handle's Update is the easier way to replace.
	ID uint32

	// keyed by wire key so a later hint replaces an earlier one of the
	// same kind
	hints map[string]Hint
}

// New constructs an empty Notification with AppName defaulted to the calling
// executable's name.
func New() *Notification {
	return &Notification{
		AppName: exeName(),
		Timeout: TimeoutDefault,
	}
}

func exeName() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(path)
}

// Hint inserts h, replacing any prior hint with the same wire key.
func (n *Notification) Hint(h Hint) *Notification {
	if n.hints == nil {
		n.hints = make(map[string]Hint)
	}
	n.hints[h.Key()] = h
	return n
}

// Hints returns the current hint set, ordered by wire key.
func (n *Notification) Hints() []Hint {
	keys := make([]string, 0, len(n.hints))
	for k := range n.hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Hint, 0, len(keys))
	for _, k := range keys {
		out = append(out, n.hints[k])
	}
	return out
}

// Action appends one identifier/label pair, preserving prior actions.
func (n *Notification) Action(identifier, label string) *Notification {
	n.Actions = append(n.Actions, identifier, label)
	return n
}

// SetActions replaces the whole action list. The input must alternate
// identifier and label; an odd-length list is a caller error and produces a
// malformed notification.
//
// Deprecated: use Action.
func (n *Notification) SetActions(actions []string) *Notification {
	n.Actions = actions
	return n
}

// Urgency is shorthand for Hint(Urgency(...)).
func (n *Notification) Urgency(u Urgency) *Notification {
	return n.Hint(u)
}

// SoundName is shorthand for Hint(SoundName(...)).
func (n *Notification) SoundName(name string) *Notification {
	return n.Hint(SoundName(name))
}

// ImagePath is shorthand for Hint(ImagePath(...)).
func (n *Notification) ImagePath(path string) *Notification {
	return n.Hint(ImagePath(path))
}

// ImageData is shorthand for Hint(ImageData(...)).
func (n *Notification) ImageData(img Image) *Notification {
	return n.Hint(ImageData(img))
}

// LoadImage reads an image file and attaches it as an image-data hint. This
// is the only builder operation that can fail.
func (n *Notification) LoadImage(path string) error {
	img, err := OpenImage(path)
	if err != nil {
		return err
	}
	n.Hint(ImageData(img))
	return nil
}

// AutoIcon sets Icon from the executable name.
func (n *Notification) AutoIcon() *Notification {
	n.Icon = exeName()
	return n
}

// Finalize returns an independent snapshot; mutating the receiver afterwards
// does not affect the copy.
func (n *Notification) Finalize() *Notification {
	out := *n
	if n.Actions != nil {
		out.Actions = append([]string(nil), n.Actions...)
	}
	if n.hints != nil {
		out.hints = make(map[string]Hint, len(n.hints))
		for k, h := range n.hints {
			out.hints[k] = h
		}
	}
	return &out
}

// Show sends the notification and returns a Handle bound to the id the
// server assigned (or to n.ID when preassigned). The Handle keeps its own
// bus connection alive so action signals keep working on certain desktops.
func (n *Notification) Show() (*Handle, error) {
	conn, err := sessionConn()
	if err != nil {
		return nil, err
	}
	id, err := notifyCall(conn, n, n.ID)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Handle{id: id, conn: conn, notification: n.Finalize()}, nil
}

// ShowDebug prints the notification to stdout before sending it.
func (n *Notification) ShowDebug() (*Handle, error) {
	fmt.Printf("Notification:\n%s: (%s) %q %q\nhints: %v\n",
		n.AppName, n.Icon, n.Summary, n.Body, n.Hints())
	return n.Show()
}

func (n *Notification) packActions() []string {
	if len(n.Actions) == 0 {
		return []string{}
	}
	return n.Actions
}

func (n *Notification) packHints() map[string]dbus.Variant {
	hints := make(map[string]dbus.Variant, len(n.hints))
	for _, h := range n.hints {
		key, value := EncodeHint(h)
		hints[key] = value
	}
	return hints
}
