package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Hint wire map keys per the freedesktop notification spec.
const (
	hintActionIcons   = "action-icons"
	hintCategory      = "category"
	hintDesktopEntry  = "desktop-entry"
	hintImageData     = "image-data"
	hintImagePath     = "image-path"
	hintResident      = "resident"
	hintSoundFile     = "sound-file"
	hintSoundName     = "sound-name"
	hintSuppressSound = "suppress-sound"
	hintTransient     = "transient"
	hintUrgency       = "urgency"
	hintX             = "x"
	hintY             = "y"
)

// Hint is one typed piece of optional notification metadata. Each variant
// maps to exactly one wire key and value kind; the set of implementations is
// closed, wire keys outside it decode to Custom.
type Hint interface {
	// Key returns the hint's wire map key.
	Key() string

	encode() dbus.Variant
}

// ActionIcons asks the server to treat action identifiers as icon names.
type ActionIcons bool

// Category is the freedesktop notification category, e.g. "email.arrived".
type Category string

// DesktopEntry names the .desktop file of the sending application.
type DesktopEntry string

// ImagePath points the server at an image file to display.
type ImagePath string

// Resident keeps the notification around after the user acts on it.
type Resident bool

// SoundFile is a path to a sound the server should play.
type SoundFile string

// SoundName is a themeable sound name per the sound naming spec.
type SoundName string

// SuppressSound asks the server not to play any sound.
type SuppressSound bool

// Transient bypasses the server's persistence, if it has any.
type Transient bool

// X is the horizontal position the notification should appear at.
type X int32

// Y is the vertical position the notification should appear at.
type Y int32

// ImageData carries raw pixels to display, see Image.
type ImageData Image

// Custom is the decode target for wire keys outside the known set. It also
// lets callers send hints this package does not model.
type Custom struct {
	Name  string
	Value string
}

func (h ActionIcons) Key() string   { return hintActionIcons }
func (h Category) Key() string      { return hintCategory }
func (h DesktopEntry) Key() string  { return hintDesktopEntry }
func (h ImageData) Key() string     { return hintImageData }
func (h ImagePath) Key() string     { return hintImagePath }
func (h Resident) Key() string      { return hintResident }
func (h SoundFile) Key() string     { return hintSoundFile }
func (h SoundName) Key() string     { return hintSoundName }
func (h SuppressSound) Key() string { return hintSuppressSound }
func (h Transient) Key() string     { return hintTransient }
func (h X) Key() string             { return hintX }
func (h Y) Key() string             { return hintY }
func (h Custom) Key() string        { return h.Name }

func (h ActionIcons) encode() dbus.Variant   { return dbus.MakeVariant(bool(h)) }
func (h Category) encode() dbus.Variant      { return dbus.MakeVariant(string(h)) }
func (h DesktopEntry) encode() dbus.Variant  { return dbus.MakeVariant(string(h)) }
func (h ImagePath) encode() dbus.Variant     { return dbus.MakeVariant(string(h)) }
func (h Resident) encode() dbus.Variant      { return dbus.MakeVariant(bool(h)) }
func (h SoundFile) encode() dbus.Variant     { return dbus.MakeVariant(string(h)) }
func (h SoundName) encode() dbus.Variant     { return dbus.MakeVariant(string(h)) }
func (h SuppressSound) encode() dbus.Variant { return dbus.MakeVariant(bool(h)) }
func (h Transient) encode() dbus.Variant     { return dbus.MakeVariant(bool(h)) }
func (h X) encode() dbus.Variant             { return dbus.MakeVariant(int32(h)) }
func (h Y) encode() dbus.Variant             { return dbus.MakeVariant(int32(h)) }
func (h Custom) encode() dbus.Variant        { return dbus.MakeVariant(h.Value) }

// imageDataWire matches the spec's iiibiiay image tuple.
type imageDataWire struct {
	Width         int32
	Height        int32
	Rowstride     int32
	HasAlpha      bool
	BitsPerSample int32
	Channels      int32
	Data          []byte
}

func (h ImageData) encode() dbus.Variant {
	return dbus.MakeVariant(imageDataWire{
		Width:         h.Width,
		Height:        h.Height,
		Rowstride:     h.Rowstride,
		HasAlpha:      h.HasAlpha,
		BitsPerSample: h.BitsPerSample,
		Channels:      h.Channels,
		Data:          h.Data,
	})
}

// EncodeHint maps a hint to its wire pair. Total: every variant has exactly
// one key and value kind.
func EncodeHint(h Hint) (string, dbus.Variant) {
	return h.Key(), h.encode()
}

// DecodeHint reconstructs a hint from its wire pair. Keys outside the known
// set decode to Custom with a best-effort string rendering of the value, so
// an unknown hint never aborts processing of the rest of a message. Known
// keys with a payload of the wrong kind are a decode error.
func DecodeHint(key string, v dbus.Variant) (Hint, error) {
	switch key {
	case hintActionIcons:
		b, err := variantBool(key, v)
		return ActionIcons(b), err
	case hintCategory:
		s, err := variantString(key, v)
		return Category(s), err
	case hintDesktopEntry:
		s, err := variantString(key, v)
		return DesktopEntry(s), err
	case hintImageData:
		return decodeImageData(v)
	case hintImagePath:
		s, err := variantString(key, v)
		return ImagePath(s), err
	case hintResident:
		b, err := variantBool(key, v)
		return Resident(b), err
	case hintSoundFile:
		s, err := variantString(key, v)
		return SoundFile(s), err
	case hintSoundName:
		s, err := variantString(key, v)
		return SoundName(s), err
	case hintSuppressSound:
		b, err := variantBool(key, v)
		return SuppressSound(b), err
	case hintTransient:
		b, err := variantBool(key, v)
		return Transient(b), err
	case hintUrgency:
		return decodeUrgency(v)
	case hintX:
		i, err := variantInt32(key, v)
		return X(i), err
	case hintY:
		i, err := variantInt32(key, v)
		return Y(i), err
	}
	if s, ok := v.Value().(string); ok {
		return Custom{Name: key, Value: s}, nil
	}
	return Custom{Name: key, Value: fmt.Sprint(v.Value())}, nil
}

func variantBool(key string, v dbus.Variant) (bool, error) {
	b, ok := v.Value().(bool)
	if !ok {
		return false, wrapErr(ErrParse, fmt.Sprintf("hint %q is not a boolean", key), nil)
	}
	return b, nil
}

func variantString(key string, v dbus.Variant) (string, error) {
	s, ok := v.Value().(string)
	if !ok {
		return "", wrapErr(ErrParse, fmt.Sprintf("hint %q is not a string", key), nil)
	}
	return s, nil
}

func variantInt32(key string, v dbus.Variant) (int32, error) {
	i, ok := v.Value().(int32)
	if !ok {
		return 0, wrapErr(ErrParse, fmt.Sprintf("hint %q is not an int32", key), nil)
	}
	return i, nil
}

// decodeImageData handles both the in-process struct form and the generic
// slice form godbus produces for structs received off the wire.
func decodeImageData(v dbus.Variant) (Hint, error) {
	switch val := v.Value().(type) {
	case imageDataWire:
		return ImageData(Image{
			Width:         val.Width,
			Height:        val.Height,
			Rowstride:     val.Rowstride,
			HasAlpha:      val.HasAlpha,
			BitsPerSample: val.BitsPerSample,
			Channels:      val.Channels,
			Data:          val.Data,
		}), nil
	case []interface{}:
		if len(val) != 7 {
			return nil, wrapErr(ErrParse, "image-data tuple has wrong arity", nil)
		}
		width, ok0 := val[0].(int32)
		height, ok1 := val[1].(int32)
		rowstride, ok2 := val[2].(int32)
		hasAlpha, ok3 := val[3].(bool)
		bps, ok4 := val[4].(int32)
		channels, ok5 := val[5].(int32)
		data, ok6 := val[6].([]byte)
		if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, wrapErr(ErrParse, "image-data tuple has wrong field types", nil)
		}
		return ImageData(Image{
			Width:         width,
			Height:        height,
			Rowstride:     rowstride,
			HasAlpha:      hasAlpha,
			BitsPerSample: bps,
			Channels:      channels,
			Data:          data,
		}), nil
	}
	return nil, wrapErr(ErrParse, "image-data hint is not a struct", nil)
}
