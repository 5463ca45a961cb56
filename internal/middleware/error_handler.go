package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"workout-engine/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SetupErrorHandler installs a centralized HTTP error handler with consistent JSON responses
func SetupErrorHandler(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// If response already committed, delegate to default
		if c.Response().Committed {
			c.Echo().DefaultHTTPErrorHandler(err, c)
			return
		}

		// Map status code
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok && he != nil {
			if he.Code > 0 {
				code = he.Code
			}
		}

		resp := models.NewAPIError(
			http.StatusText(code),
			sanitizeHTTPErrorMessage(err),
			"HTTP_"+strconv.Itoa(code),
		)
		resp.TraceID = uuid.New().String()
		resp.Retryable = isRetryableError(code)
		resp.Category, resp.Suggestion = categorizeError(code)
		resp.Request = &models.RequestInfo{
			ID:       c.Response().Header().Get(echo.HeaderXRequestID),
			Method:   c.Request().Method,
			Endpoint: c.Request().URL.Path,
			IP:       c.RealIP(),
		}

		if writeErr := c.JSON(code, resp); writeErr != nil {
			c.Echo().DefaultHTTPErrorHandler(err, c)
		}
	}
}

// sanitizeHTTPErrorMessage strips internals from messages shown to clients.
func sanitizeHTTPErrorMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok && he != nil {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	msg := err.Error()
	for _, sensitive := range []string{"sql:", "sqlite", "firestore", "rpc error"} {
		if strings.Contains(strings.ToLower(msg), sensitive) {
			return "internal error"
		}
	}
	return msg
}

// isRetryableError reports whether the client may usefully retry.
func isRetryableError(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// categorizeError tags the response and suggests a next step by status class.
func categorizeError(code int) (category, suggestion string) {
	switch {
	case code == http.StatusBadRequest:
		return "validation", "Check the request body against the API schema"
	case code == http.StatusNotFound:
		return "not_found", "Verify the resource id"
	case code == http.StatusTooManyRequests:
		return "rate_limit", "Slow down and retry after a short delay"
	case code >= 500:
		return "server", "Retry later; contact support if the problem persists"
	default:
		return "client", ""
	}
}
