package problem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const ContentType = "application/problem+json"

const genericDetail = "An unexpected error occurred"

// From converts any error into a Problem. Errors that are not Problems
// become internal errors with a generic detail.
func From(err error) Problem {
	var p *Problem
	if errors.As(err, &p) {
		return p.normalized()
	}
	return Problem{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: 500,
		Detail: genericDetail,
	}
}

// Respond writes err as a Problem Details body and aborts the chain.
func Respond(c *gin.Context, err error) {
	body := From(err)
	body.Instance = requestURL(c)

	fields := []zap.Field{
		zap.Int("status", body.Status),
		zap.String("type", body.Type),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	if body.Status >= 500 {
		zap.L().Error("[PROBLEM] request failed", fields...)
	} else {
		zap.L().Info("[PROBLEM] request rejected", fields...)
	}

	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(body.Status, body)
}

// FromBinding maps gin/validator binding failures to a validation problem.
func FromBinding(err error) *Problem {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "gte", "gt":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "oneof":
				details = append(details, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		return Validation(strings.Join(details, "; ")).WithCause(err)
	}
	return Validation("Request body is invalid").WithCause(err)
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
