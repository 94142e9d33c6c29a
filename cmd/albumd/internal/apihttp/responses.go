package apihttp

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/photoalbums/pkg/models"
)

const (
	ErrorBadRequest   = "BadRequest"
	ErrorNotFound     = "NotFound"
	ErrorServerError  = "ServerError"
	ErrorUnauthorized = "Unauthorized"

	maxBodyBytes = 1 << 20
)

func setCorsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,x-user-id")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	setCorsHeaders(w)
	httphelpers.WriteJson(w, status, body)
}

func OK(w http.ResponseWriter, body any) {
	WriteJSON(w, http.StatusOK, body)
}

/*
Created writes a 201. httphelpers.WriteJson leaves any 2xx as an
implicit 200, so the status line is written here.
*/
func Created(w http.ResponseWriter, body any) {
	setCorsHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error writing JSON response", "status", http.StatusCreated, "error", err)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ErrorBadRequest, Message: message})
}

func NotFound(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusNotFound, models.ErrorResponse{Error: ErrorNotFound, Message: message})
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: ErrorUnauthorized, Message: message})
}

func ServerError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: ErrorServerError, Message: message})
}

/*
Preflight answers CORS OPTIONS requests.
*/
func Preflight(w http.ResponseWriter, r *http.Request) {
	setCorsHeaders(w)
	w.WriteHeader(http.StatusOK)
}

/*
ReadJSON decodes the request body into dest. An empty body leaves dest
untouched, since every body this API accepts is optional.
*/
func ReadJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}

	body := bufio.NewReader(io.LimitReader(r.Body, maxBodyBytes))

	if _, err := body.Peek(1); err == io.EOF {
		return nil
	}

	r.Body = io.NopCloser(body)

	if err := httphelpers.ReadJSONBody(r, dest); err != nil {
		slog.Debug("rejecting request body", "error", err)
		return errors.New("Invalid JSON body")
	}

	return nil
}
