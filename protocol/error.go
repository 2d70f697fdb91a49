package protocol

import "fmt"

// WscError carries a WSC_NACK configuration_error code: a typed sentinel
// that callers can recover via errors.Cause to decide how to respond on
// the wire.
type WscError struct {
	Code    ConfigError
	Message string
}

func (e WscError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code.String()
}

// ErrF builds a WscError with a formatted message.
func ErrF(code ConfigError, format string, a ...interface{}) WscError {
	return WscError{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Suppressed reports whether a NACK carrying this code must be dropped
// silently instead of transmitted.
func (e WscError) Suppressed() bool {
	return e.Code == ConfigErrNone
}

var (
	// ErrParse is returned by attribute/message decoders on malformed
	// input. It carries ConfigErrNone; Session.HandleMessage returns a
	// message decode failure to its caller as an error without building a
	// NACK.
	ErrParse = WscError{Code: ConfigErrNone, Message: "parse error"}
)
