package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/provia-hq/provia/modules/orgchart/services"
	"github.com/provia-hq/provia/pkg/configuration"
	"github.com/provia-hq/provia/pkg/httpapi"
)

func requestID(r *http.Request) string {
	return r.Header.Get(configuration.Use().RequestIDHeader)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	_ = httpapi.WriteError(w, status, code, message, httpapi.RequestMeta(requestID(r), r.URL.Path))
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var serr *services.ServiceError
	if errors.As(err, &serr) {
		writeAPIError(w, r, serr.Status, serr.Code, serr.Message)
		return
	}
	writeAPIError(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "unexpected error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "INVALID_ID", name+" is not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}
