package notify

import (
	"errors"
	"fmt"
)

// Error classes, matched with errors.Is. Decode-time malformations in replies
// are defaulted away wherever a sensible default exists; only these surface.
var (
	// ErrTransport covers bus connection failures, send failures and reply
	// timeouts.
	ErrTransport = errors.New("transport failure")

	// ErrParse covers malformed fields in replies and hint payloads.
	ErrParse = errors.New("malformed field")

	// ErrSpecVersion reports a server whose protocol version cannot be used.
	ErrSpecVersion = errors.New("incompatible spec version")
)

func wrapErr(class error, op string, err error) error {
	if err == nil {
		return fmt.Errorf("notify: %s: %w", op, class)
	}
	return fmt.Errorf("notify: %s: %w: %v", op, class, err)
}
