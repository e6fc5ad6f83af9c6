// Package httpapi carries the normalized HTTP request/response shapes used
// between the transport adapter and the interaction router, plus the
// status-coded error type every fault is surfaced through.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Request is an inbound HTTP request decoded from the transport envelope.
// Treated as immutable once constructed.
type Request struct {
	Method          string
	Path            string
	QueryParameters map[string]string
	Headers         map[string]string
	Body            []byte
}

// Header returns the value of the named header, matched case-insensitively.
func (r *Request) Header(name string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// JSONBody unmarshals the request body into v.
func (r *Request) JSONBody(v interface{}) error {
	if r.Body == nil {
		return errors.New("request has no body")
	}
	return json.Unmarshal(r.Body, v)
}

// Response is an outbound HTTP response handed to the transport adapter.
// Body must be present unless StatusCode is 204.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// NewJSONResponse builds a response with a JSON-serialized body.
func NewJSONResponse(statusCode int, data interface{}) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response body: %w", err)
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       body,
	}, nil
}

// Error is a fault that maps directly onto an HTTP error response.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewError builds a status-coded error.
func NewError(statusCode int, message string) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

// Response converts the error into its plain-text response.
func (e *Error) Response() *Response {
	return &Response{
		StatusCode: e.StatusCode,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       []byte(e.Message),
	}
}

// ResponseFromError converts any error into a response. A typed *Error keeps
// its status and message; anything else becomes a 500 carrying the error's
// type name and message as a debugging aid.
func ResponseFromError(err error) *Response {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.Response()
	}

	return &Response{
		StatusCode: 500,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       []byte(fmt.Sprintf("%T: %v", err, err)),
	}
}
