package cachebox

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

var (
	// ErrEmptyKey is returned by Set when key is empty. No provider call is made.
	ErrEmptyKey = errors.New("cachebox: key is required")
	// ErrInvalidTTL is returned by SetWithTTL for a negative ttl.
	ErrInvalidTTL = errors.New("cachebox: ttl must be >= 0")
	// ErrUnsupportedProvider is wrapped in the ConfigError for an unknown store name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	errNilProvider = errors.New("factory returned nil provider")
)

// ConfigError reports configuration problems found at construction time.
type ConfigError = pr.ConfigError

// DecodeError is returned by Get when a stored value cannot be decoded.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cachebox: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValueTypeError is returned by Get when a provider hands back a value that
// is neither serialized (string/[]byte) nor already of the cache's type.
type ValueTypeError struct {
	Key  string
	Got  string
	Want string
}

func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("cachebox: value for %q has type %s, want %s or serialized string", e.Key, e.Got, e.Want)
}

// ClearError reports the keys Clear failed to delete. Deletions that
// succeeded stay applied; Clear is best-effort, not all-or-nothing.
type ClearError struct {
	Namespace string
	Attempted int
	Failed    map[string]error // unprefixed key -> provider error
}

func (e *ClearError) Error() string {
	keys := e.FailedKeys()
	const show = 5
	list := keys
	if len(list) > show {
		list = list[:show]
	}
	msg := fmt.Sprintf("cachebox: clear %q: %d of %d deletes failed (%s",
		e.Namespace, len(keys), e.Attempted, strings.Join(list, ", "))
	if len(keys) > show {
		msg += ", ..."
	}
	msg += ")"
	if len(keys) > 0 {
		msg += ": " + e.Failed[keys[0]].Error()
	}
	return msg
}

// FailedKeys returns the failed keys sorted.
func (e *ClearError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failed))
	for k := range e.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *ClearError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, k := range e.FailedKeys() {
		errs = append(errs, e.Failed[k])
	}
	return errs
}
