package lists

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a FetchError so callers can react without parsing
// messages.
type ErrorKind string

const (
	// KindConfig means the SourceConfig is syntactically wrong.
	KindConfig ErrorKind = "config"
	// KindUnreachable covers network, timeout, proxy and non-success HTTP
	// failures. Retrying later may succeed.
	KindUnreachable ErrorKind = "unreachable"
	// KindAccessRevoked means the list exists in the caller's configuration
	// but the source no longer lets us read it (private, deleted, login
	// required). Retrying will not help until the user acts.
	KindAccessRevoked ErrorKind = "access_revoked"
	// KindMalformed means the source answered but the payload could not be
	// understood.
	KindMalformed ErrorKind = "malformed"
	// KindInternal is a defect in the fetcher itself.
	KindInternal ErrorKind = "internal"
)

// Access-revoked reasons.
const (
	ReasonPrivate  = "private"
	ReasonNotFound = "not_found"
)

// Wire prefixes produced by FetchError.Error for access-revoked failures.
const (
	PrefixPrivate  = "LIST_PRIVATE: "
	PrefixNotFound = "LIST_NOT_FOUND: "
)

// ErrUnknownSource is returned when a source tag is not registered.
var ErrUnknownSource = errors.New("unknown list source")

// ErrCapabilityUnsupported is returned when an optional capability is
// requested from a source that does not implement it.
var ErrCapabilityUnsupported = errors.New("operation not supported by this source")

// FetchError is the structured error carried by FetchResult and
// ValidationResult.
type FetchError struct {
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
}

func (e *FetchError) Error() string {
	if e.Kind == KindAccessRevoked {
		if e.Reason == ReasonNotFound {
			return PrefixNotFound + e.Message
		}
		return PrefixPrivate + e.Message
	}
	return e.Message
}

// ConfigError builds a KindConfig error.
func ConfigError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// UnreachableError builds a KindUnreachable error.
func UnreachableError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindUnreachable, Message: fmt.Sprintf(format, args...)}
}

// MalformedError builds a KindMalformed error.
func MalformedError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// PrivateError builds an access-revoked error for a list that became private
// or now requires a login.
func PrivateError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindAccessRevoked, Reason: ReasonPrivate, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError builds an access-revoked error for a list or user that no
// longer exists.
func NotFoundError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindAccessRevoked, Reason: ReasonNotFound, Message: fmt.Sprintf(format, args...)}
}

// InternalError builds a KindInternal error.
func InternalError(format string, args ...any) *FetchError {
	return &FetchError{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// IsAccessRevoked reports whether err is an access-revoked failure. It
// accepts typed errors anywhere in the chain as well as plain errors whose
// message carries one of the wire prefixes, which is what comes back after
// a FetchError has been stored as text.
func IsAccessRevoked(err error) bool {
	if err == nil {
		return false
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == KindAccessRevoked
	}
	return IsAccessRevokedMessage(err.Error())
}

// IsAccessRevokedMessage is IsAccessRevoked for an already rendered message.
func IsAccessRevokedMessage(msg string) bool {
	return strings.HasPrefix(msg, PrefixPrivate) || strings.HasPrefix(msg, PrefixNotFound)
}

// ParseErrorMessage rebuilds a FetchError from its rendered form. Messages
// without a known prefix come back as KindUnreachable.
func ParseErrorMessage(msg string) *FetchError {
	switch {
	case strings.HasPrefix(msg, PrefixPrivate):
		return PrivateError("%s", strings.TrimPrefix(msg, PrefixPrivate))
	case strings.HasPrefix(msg, PrefixNotFound):
		return NotFoundError("%s", strings.TrimPrefix(msg, PrefixNotFound))
	default:
		return UnreachableError("%s", msg)
	}
}
