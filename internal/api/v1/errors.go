package v1

import "github.com/danielgtaylor/huma/v2"

// ErrorResponse is the error body for every API error: a short message under
// "error" plus optional detail strings.
type ErrorResponse struct {
	status  int
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string  { return e.Message }
func (e *ErrorResponse) GetStatus() int { return e.status }

//nolint:gochecknoinits // huma error shape must be replaced before any handler registers
func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}
		return &ErrorResponse{status: status, Message: message, Details: details}
	}
}
