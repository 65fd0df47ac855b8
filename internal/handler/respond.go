package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

// errUnsupportedMediaType is returned by decodeBody for a body that is not declared as JSON
var errUnsupportedMediaType = errors.New("request body must be application/json")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code model.Reason, err error) {
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).Str("code", string(code)).Msg("Request failed")
	}
	writeJSON(w, r, status, model.ErrorResponse{Error: err.Error(), Code: string(code)})
}

// decodeBody decodes an optional JSON body into v; an empty body leaves v untouched.
// Bodies that are not declared as application/json are refused so a browser
// cannot send them cross-site without a preflight.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errUnsupportedMediaType
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// bodyError answers a decodeBody failure: 415 for the wrong media type, 400 with code otherwise
func bodyError(w http.ResponseWriter, r *http.Request, code model.Reason, err error) {
	if errors.Is(err, errUnsupportedMediaType) {
		writeError(w, r, http.StatusUnsupportedMediaType, model.CodeUnsupportedMediaType, err)
		return
	}
	writeError(w, r, http.StatusBadRequest, code, err)
}
