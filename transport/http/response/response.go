package response

import (
	"encoding/json"
	"net/http"
	"pms/shared/constant"
	"pms/shared/failure"
	"pms/shared/logger"
)

type Data[T any] struct {
	Data     *T      `json:"data,omitempty"`
	Message  *string `json:"message,omitempty"`
	Redirect *string `json:"redirect,omitempty"`
}

type Error struct {
	Error    *string `json:"error,omitempty"`
	Redirect *string `json:"redirect,omitempty"`
}

type Message struct {
	Message  *string `json:"message,omitempty"`
	Redirect *string `json:"redirect,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithRedirect sends a notification together with the page the client should go to next.
func WithRedirect(writer http.ResponseWriter, code int, message, redirect string) {
	response(writer, code, Message{Message: &message, Redirect: &redirect})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithDataRedirect sends a JSON object with a notification and the next page.
func WithDataRedirect(writer http.ResponseWriter, code int, jsonPayload interface{}, message, redirect string) {
	response(writer, code, Data[any]{Data: &jsonPayload, Message: &message, Redirect: &redirect})
}

// WithError sends a response with an error message
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	response(writer, code, Error{Error: &errMsg})
}

// WithFailure sends an error that sends the client back to form. A missing entity
// always sends it home instead.
func WithFailure(writer http.ResponseWriter, err error, form string) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	redirect := form
	if code == http.StatusNotFound {
		redirect = constant.RedirectHome
	}

	response(writer, code, Error{Error: &errMsg, Redirect: &redirect})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
