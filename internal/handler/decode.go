package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes a single JSON value from the request body into dst.
// Errors caused by the client are returned as *malformedRequest.
func decodeJSONBody(rw http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return &malformedRequest{status: http.StatusBadRequest, msg: "Content-Type must be application/json"}
	}

	r.Body = http.MaxBytesReader(rw, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return &malformedRequest{status: http.StatusBadRequest,
				msg: fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body contains badly-formed JSON"}
		case errors.As(err, &typeError):
			return &malformedRequest{status: http.StatusBadRequest,
				msg: fmt.Sprintf("Request body contains an invalid value for the %q field", typeError.Field)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return &malformedRequest{status: http.StatusBadRequest,
				msg: "Request body contains unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")}
		case errors.Is(err, io.EOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must not be empty"}
		case errors.As(err, &maxBytesError):
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: "Request body must not be larger than 1MB"}
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must only contain a single JSON value"}
	}

	return nil
}

func (h *Handler) writeDecodeError(rw http.ResponseWriter, err error) {
	var mr *malformedRequest
	if errors.As(err, &mr) {
		http.Error(rw, mr.msg, mr.status)
		return
	}
	h.logger.Error("Failed to decode request body", zap.Error(err))
	http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
