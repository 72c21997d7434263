package handlers

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Status  int      `json:"-"`
	Message string   `json:"error"             example:"url not found"`
	Details []string `json:"details,omitempty"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorBody) GetStatus() int {
	return e.Status
}

var errorBodyOnce sync.Once

// UseErrorBody makes huma render errors as {"error": "..."}.
// Schema validation failures answer 400 like every other validation error,
// and details are only exposed for client errors.
func UseErrorBody() {
	errorBodyOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}

			body := &ErrorBody{Status: status, Message: msg}

			if status < 500 {
				for _, err := range errs {
					if err != nil {
						body.Details = append(body.Details, err.Error())
					}
				}
			}

			return body
		}
	})
}
