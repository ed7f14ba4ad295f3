package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindServer
	KindMalformed
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// ErrUnauthorized matches any backend error caused by an HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a classified backend failure. Message is safe to show to a user.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindAuth && e.Status == 401
}

// KindOf returns the kind of a classified error, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// errorBody is the FastAPI error shape. detail is either a string or a list
// of validation items carrying msg.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

func parseErrorBody(data []byte) (errorBody, bool) {
	var b errorBody
	if len(data) == 0 || json.Unmarshal(data, &b) != nil {
		return errorBody{}, false
	}
	return b, true
}

// validation returns the joined msgs when detail is a list.
func (b errorBody) validation() (string, bool) {
	var items []validationItem
	if len(b.Detail) == 0 || json.Unmarshal(b.Detail, &items) != nil {
		return "", false
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if it.Msg != "" {
			msgs = append(msgs, it.Msg)
		}
	}
	return strings.Join(msgs, ", "), true
}

// text picks detail, then message, then fallback.
func (b errorBody) text(fallback string) string {
	var s string
	if len(b.Detail) > 0 && json.Unmarshal(b.Detail, &s) == nil && s != "" {
		return s
	}
	if msg, ok := b.validation(); ok && msg != "" {
		return msg
	}
	if b.Message != "" {
		return b.Message
	}
	return fallback
}
