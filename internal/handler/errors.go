package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trip-catalog/backend/internal/domain"
)

// ErrorDetail is the machine-readable code plus a human-readable message.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped sentinel error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

func unauthenticatedBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:    "unauthenticated",
		Message: OperatorHeader + " header is required",
	}}
}

func forbiddenBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "forbidden", Message: unwrapMessage(err)}}
}

func tooLargeBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "payload_too_large", Message: errBodyTooLarge.Error()}}
}

// cascadeBody lists the bookings a cancellation left behind.
func cascadeBody(ce *domain.CascadeError) ErrorResponse {
	ids := ce.FailedBookingIDs()
	details := make([]string, len(ids))
	for i, id := range ids {
		details[i] = id.String()
	}
	return ErrorResponse{Error: ErrorDetail{
		Code:    "cascade_incomplete",
		Message: "trip cancelled but some bookings could not be cancelled; retry the cancellation",
		Details: details,
	}}
}

func internalBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}}
}

// decodeFailure writes the response for a body that could not be decoded.
func (s *Server) decodeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		s.writeJSON(w, r, http.StatusRequestEntityTooLarge, tooLargeBody())
		return
	}
	s.writeJSON(w, r, http.StatusUnprocessableEntity, requestBody(err.Error()))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "invalid trip parameters: flight_price must be greater than zero"
// → "flight_price must be greater than zero"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrInvalidTripParameters,
		domain.ErrInvalidBooking,
		domain.ErrUnauthorized,
	} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
			return msg[i+len(prefix):]
		}
	}
	return msg
}
