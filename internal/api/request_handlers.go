package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

type createRequestRequest struct {
	Description string `json:"description"`
}

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	created, err := s.requests.Create(r.Context(), userID, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleGetOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	requests, err := s.requests.GetForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	from, err := queryInt(r, "from", models.DefaultPageFrom)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	size, err := queryInt(r, "size", models.DefaultPageSize)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	requests, err := s.requests.GetOfOthers(r.Context(), userID, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	details, err := s.requests.GetByID(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
