package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON error payload returned by the API routes.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse is the JSON payload for operations with nothing to
// return beyond confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

var (
	EmptyRequestBodyResponse = ErrorResponse{
		Error: "request body is empty",
	}
	BadRequestResponse = ErrorResponse{
		Error: "invalid request body",
	}
	ServerErrorResponse = ErrorResponse{
		Error: "internal server error",
	}
)

func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationErrorResponse flattens validator.ValidationErrors into one
// error payload with a detail line per failed field.
func ValidationErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Error: "validation failed",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			resp.Details = append(resp.Details,
				fmt.Sprintf("field %q failed on the %q rule", e.Field(), e.Tag()))
		}
	}

	return resp
}
