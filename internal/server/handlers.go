package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/chat"
	"github.com/spigell/candidate-matcher/internal/logger"
)

const (
	genericErrorMessage      = chat.GenericErrorMessage
	profilesErrorMessage     = "Error fetching profiles"
	availabilityErrorMessage = "Error fetching availability"

	maxChatBodyBytes = 1 << 20
)

type messageBody struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), s.logger)

	var req chat.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes))
	if err := dec.Decode(&req); err != nil {
		log.Debug("decoding chat request", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.chat.Respond(r.Context(), &req)
	switch {
	case errors.Is(err, chat.ErrMalformedRequest):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error("answering chat request", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.datasets.LoadProfiles(r.Context())
	if err != nil {
		logger.FromContext(r.Context(), s.logger).Error("fetching profiles", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, profilesErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := s.datasets.LoadAvailability(r.Context())
	if err != nil {
		logger.FromContext(r.Context(), s.logger).Error("fetching availability", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, availabilityErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
