// Package resperr defines the request-level error taxonomy: every failure a
// client can see is an Error carrying an HTTP status, a message and optional
// detail. Validation paths accumulate into Errors; everything else fails fast.
package resperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Info    any    `json:"info,omitempty"`
}

func (e *Error) Error() string {
	if s, ok := e.Info.(string); ok && s != "" {
		return fmt.Sprintf("%s: %s", e.Message, s)
	}
	return e.Message
}

func MissingHeader(name string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("missing header %q", name)}
}

func MissingQuery(name string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("missing query parameter %q", name)}
}

func InvalidQuery(name, reason string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid query parameter %q", name), Info: reason}
}

func MissingField(name string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("missing field %q", name)}
}

func InvalidField(name, reason string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid field %q", name), Info: reason}
}

func MalformedAuthorization() *Error {
	return &Error{Status: http.StatusBadRequest, Message: "malformed Authorization header"}
}

func ParseBody(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "could not parse request body", Info: err.Error()}
}

func UserExists(username string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("username %q already exists", username)}
}

func InvalidCredentials() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "invalid username or password"}
}

// HostnameNotAllowed rejects an update for a hostname outside the caller's
// domain set. The whole request fails; no partial updates happen.
func HostnameNotAllowed(hostname string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: fmt.Sprintf("hostname %q is not in your domain set", hostname)}
}

func UserNotFound(username string) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf("user %q not found", username)}
}

func Store(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "backing store failure", Info: err.Error()}
}

func Hash(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "password hashing failure", Info: err.Error()}
}

// DNSProvider reports a hosted-zone API failure. zoneID is empty when the
// failure happened before any zone was targeted (listing).
func DNSProvider(zoneID string, err error) *Error {
	e := &Error{Status: http.StatusInternalServerError, Message: "DNS provider failure", Info: err.Error()}
	if zoneID != "" {
		e.Message = fmt.Sprintf("DNS provider failure updating zone %s", zoneID)
	}
	return e
}

// Errors collects input-validation failures so one response can report all of
// them. It is not meant for authorization or provider failures; those short
// circuit.
type Errors struct {
	errs []*Error
}

func (es *Errors) Add(e *Error) {
	es.errs = append(es.errs, e)
}

func (es *Errors) Empty() bool {
	return len(es.errs) == 0
}

// Err collapses the collection: nil when empty, the sole member when there is
// exactly one, otherwise an aggregate whose Info lists every sub-error.
func (es *Errors) Err() error {
	switch len(es.errs) {
	case 0:
		return nil
	case 1:
		return es.errs[0]
	}
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "multiple validation errors",
		Info:    es.errs,
	}
}

// Write renders err as the JSON error response. Errors that are not *Error
// are masked as a generic 500 so internal detail never leaks.
func Write(w http.ResponseWriter, err error) {
	var re *Error
	if !errors.As(err, &re) {
		log.WithError(err).Error("unclassified error reached the response writer")
		re = &Error{Status: http.StatusInternalServerError, Message: "internal error"}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(re.Status)
	_ = json.NewEncoder(w).Encode(re)
}
