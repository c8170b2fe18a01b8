package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a response that encodes body with the given status.
func JSON(status int, body any) Response {
	return jsonResponse{status: status, body: body}
}

// failResponse hands err to the error handler without writing anything.
type failResponse struct{ err error }

func (f failResponse) Render(http.ResponseWriter, *http.Request) error { return f.err }

// Fail returns a Response that routes err to the configured ErrorHandler.
func Fail(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return failResponse{err: err}
}

// WriteJSON writes body outside of a wrapped handler, e.g. from middleware.
func WriteJSON(w http.ResponseWriter, status int, body any) error {
	return jsonResponse{status: status, body: body}.Render(w, nil)
}
