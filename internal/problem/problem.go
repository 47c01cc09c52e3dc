// Package problem carries the Problem Details error envelope shared by
// every service and route.
package problem

import (
	"fmt"
	"net/http"
)

const BaseURI = "https://api.shop.am/problems/"

const (
	TypeUnauthorized = BaseURI + "unauthorized"
	TypeForbidden    = BaseURI + "forbidden"
	TypeNotFound     = BaseURI + "not-found"
	TypeValidation   = BaseURI + "validation-error"
	TypeConflict     = BaseURI + "conflict"
	TypeInternal     = BaseURI + "internal-error"
)

// Problem is a service failure that maps 1:1 onto an HTTP response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// cause is kept for logs and errors.Is, never serialised.
	cause error
}

func (p *Problem) Error() string {
	msg := fmt.Sprintf("%d %s", p.Status, p.Title)
	if p.Detail != "" {
		msg += ": " + p.Detail
	}
	if p.cause != nil {
		msg += ": " + p.cause.Error()
	}
	return msg
}

func (p *Problem) Unwrap() error {
	return p.cause
}

// WithCause returns a copy of p that wraps err.
func (p *Problem) WithCause(err error) *Problem {
	cp := *p
	cp.cause = err
	return &cp
}

// normalized fills zero fields with the internal-error shape.
func (p *Problem) normalized() Problem {
	out := *p
	out.cause = nil
	if out.Status == 0 {
		out.Status = http.StatusInternalServerError
	}
	if out.Type == "" {
		out.Type = TypeInternal
	}
	if out.Title == "" {
		out.Title = http.StatusText(out.Status)
		if out.Title == "" {
			out.Title = "Internal Server Error"
		}
	}
	return out
}

func New(status int, typ, title, detail string) *Problem {
	return &Problem{Type: typ, Title: title, Status: status, Detail: detail}
}

func Unauthorized(title, detail string) *Problem {
	return New(http.StatusUnauthorized, TypeUnauthorized, title, detail)
}

func Forbidden(detail string) *Problem {
	return New(http.StatusForbidden, TypeForbidden, "Forbidden", detail)
}

func NotFound(title string) *Problem {
	return New(http.StatusNotFound, TypeNotFound, title, "")
}

func Validation(detail string) *Problem {
	return New(http.StatusBadRequest, TypeValidation, "Validation Error", detail)
}

func Conflict(title, detail string) *Problem {
	return New(http.StatusConflict, TypeConflict, title, detail)
}

func Internal(detail string, cause error) *Problem {
	return New(http.StatusInternalServerError, TypeInternal, "Internal Server Error", detail).WithCause(cause)
}
