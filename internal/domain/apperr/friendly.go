package apperr

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// StatusCoder is implemented by transport errors that carry an HTTP status
type StatusCoder interface {
	HTTPStatus() int
}

// Friendly converts any error into a short human-readable message.
// Validation and not-found messages are already user-facing and pass
// through; everything else is mapped by kind.
func Friendly(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}

	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case CodeValidation, CodeConflict:
			return capitalize(e.Message)
		case CodeNotFound:
			return capitalize(e.Message) + "."
		case CodeStorage:
			return "The file could not be saved. Please try again."
		}
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return friendlyStatus(sc.HTTPStatus())
	}

	if timeout, ok := transportError(err); ok {
		if timeout {
			return "The request timed out. Please try again."
		}
		return "Network error. Check your connection and try again."
	}

	if e != nil && e.Code == CodeUpstream {
		return "The service is unavailable right now. Please try again."
	}

	return "Something went wrong. Please try again."
}

// transportError reports whether err came from a network round trip.
// syscall.Errno also satisfies net.Error, so only the net and url wrappers count.
func transportError(err error) (timeout bool, ok bool) {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout(), true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Timeout(), true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Timeout(), true
	}
	return false, false
}

func friendlyStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case status == http.StatusForbidden:
		return "You don't have permission to do that."
	case status == http.StatusNotFound:
		return "The requested item could not be found."
	case status == http.StatusConflict:
		return "This item was changed by someone else. Refresh and try again."
	case status == http.StatusRequestEntityTooLarge:
		return "The file is too large to upload."
	case status == http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	case status >= 400 && status < 500:
		return "The request was rejected. Check the form and try again."
	case status >= 500:
		return "The server had a problem processing your request. Please try again."
	}
	return "Something went wrong. Please try again."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
