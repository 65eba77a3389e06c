package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/printly/storefront/pkg/errors"
)

// upstreamErrorBody is the shape of a structured error body returned by the
// collaborating APIs. Both {"error": {...}} envelopes and flat
// {"code": ..., "message": ...} bodies are accepted.
type upstreamErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. The caller should only invoke this when
// resp.StatusCode indicates an error; the body is fully consumed and closed.
func ParseResponseError(resp *http.Response, apiName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", apiName, resp.StatusCode, err)
	}

	code, message := "", ""
	var parsed upstreamErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil:
			code, message = parsed.Error.Code, parsed.Error.Message
		case parsed.Message != "":
			code, message = parsed.Code, parsed.Message
		}
	}
	if message == "" {
		return fmt.Errorf("%s returned status %d: %s", apiName, resp.StatusCode, string(bodyBytes))
	}

	return mapUpstreamError(resp.StatusCode, code, message, apiName)
}

// mapUpstreamError translates an upstream status and error body into an
// AppError that preserves the error semantics.
func mapUpstreamError(status int, code, message, apiName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", apiName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(apiName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualifiedMsg)
	case status >= 500:
		return fmt.Errorf("%s server error (%d/%s): %s", apiName, status, code, message)
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}
