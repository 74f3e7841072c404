package azure

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
)

// MapHTTPError converts a non-2xx vendor response into an APIError. It
// attempts to parse the body as the vendor's error envelope to extract a
// descriptive message.
func MapHTTPError(resp *http.Response) *api.APIError {
	message := ExtractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request to Azure OpenAI"
		}
		return api.NewInvalidRequestError("", message)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "Azure OpenAI authentication failed"
		}
		return api.NewVendorError(message)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "Azure OpenAI resource not found"
		}
		return api.NewNotFoundError(message)

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "Azure OpenAI rate limit exceeded"
		}
		return api.NewTooManyRequestsError(message)

	case resp.StatusCode >= http.StatusInternalServerError:
		if message == "" {
			message = fmt.Sprintf("Azure OpenAI server error (HTTP %d)", resp.StatusCode)
		}
		return api.NewVendorError(message)

	default:
		if message == "" {
			message = fmt.Sprintf("unexpected Azure OpenAI error (HTTP %d)", resp.StatusCode)
		}
		return api.NewVendorError(message)
	}
}

// MapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into an APIError.
func MapNetworkError(err error) *api.APIError {
	return api.NewVendorError(fmt.Sprintf("Azure OpenAI connection error: %s", err.Error()))
}

// ExtractErrorMessage tries to parse the response body as the vendor error
// envelope and returns the error message if found.
func ExtractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
