package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
	"shareit/internal/service"
)

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	created, err := s.items.Create(r.Context(), userID, &item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var patch service.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	updated, err := s.items.Update(r.Context(), userID, itemID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	details, err := s.items.GetByID(r.Context(), userID, itemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleGetOwnItems(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	items, err := s.items.GetAllForOwner(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.items.Delete(r.Context(), itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createCommentRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	comment, err := s.items.AddComment(r.Context(), userID, itemID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
