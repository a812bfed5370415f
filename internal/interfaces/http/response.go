package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// fail writes the friendly message for err. Server-side failures are
// logged as errors, client mistakes at info.
func (h *Handlers) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op, "error", err, "path", c.Request.URL.Path)
	} else {
		h.logger.Info(op, "error", err.Error(), "status", status)
	}
	c.JSON(status, Response{Success: false, Error: apperr.Friendly(err)})
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeStorage:
		return http.StatusInternalServerError
	}

	var sc apperr.StatusCoder
	if errors.As(err, &sc) {
		if s := sc.HTTPStatus(); s >= 400 && s < 500 {
			return s
		}
		return http.StatusBadGateway
	}
	if apperr.CodeOf(err) == apperr.CodeUpstream {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// listQuery reads search, sort and paging parameters plus the named
// filters from the query string
func listQuery(c *gin.Context, filters ...string) listing.Query {
	q := listing.Query{
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
		Desc:   strings.EqualFold(c.Query("order"), "desc") || c.Query("desc") == "true",
		Limit:  nonNegative(c.Query("limit")),
		Offset: nonNegative(c.Query("offset")),
	}
	for _, name := range filters {
		if v, ok := c.GetQuery(name); ok {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[name] = v
		}
	}
	return q
}

func nonNegative(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var errInvalidBody = apperr.Validation("invalid request body")
