package api

import (
	"context"
	"encoding/json"
	"net/http"

	"lendit/internal/models"
)

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestorID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createItemRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeServiceError(w, err)
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), requestorID, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	s.listRequests(w, r, s.requests.GetOwnRequests)
}

func (s *Server) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	s.listRequests(w, r, s.requests.GetOtherRequests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := s.requests.GetRequestByID(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) listRequests(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error),
) {
	requestorID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := list(r.Context(), requestorID, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}
