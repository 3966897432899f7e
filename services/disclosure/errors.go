package disclosure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/antzucaro/matchr"
)

func notFound(format string, args ...any) error {
	return connect.NewError(connect.CodeNotFound, fmt.Errorf(format, args...))
}

func badRequest(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func unavailable(format string, args ...any) error {
	return connect.NewError(connect.CodeUnavailable, fmt.Errorf(format, args...))
}

func internal(format string, args ...any) error {
	return connect.NewError(connect.CodeInternal, fmt.Errorf(format, args...))
}

// HttpStatus maps the connect code of err to an HTTP status, errors that
// carry no code are internal.
func HttpStatus(err error) int {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return http.StatusInternalServerError
	}
	switch cerr.Code() {
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetail is the client facing message of err.
func ErrorDetail(err error) string {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr.Message()
	}
	return err.Error()
}

const suggestionThreshold = 0.85

// suggest returns the option closest to input by Jaro-Winkler similarity, or
// "" when nothing is close enough.
func suggest(input string, options []string) string {
	best := ""
	bestScore := 0.0
	lowered := strings.ToLower(input)
	for _, opt := range options {
		score := matchr.JaroWinkler(lowered, opt, false)
		if score >= suggestionThreshold && score > bestScore {
			best = opt
			bestScore = score
		}
	}
	return best
}

func unknownValueError(kind, input string, valid []string) error {
	msg := fmt.Sprintf(
		"Invalid %s %q. Valid %ss: %s",
		kind, input, kind, strings.Join(valid, ", "),
	)
	if hint := suggest(input, valid); hint != "" {
		msg += fmt.Sprintf(". Did you mean %q?", hint)
	}
	return notFound("%s", msg)
}
