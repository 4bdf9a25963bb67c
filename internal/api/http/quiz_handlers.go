package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mind-engage/railquiz/internal/quiz"
	"github.com/mind-engage/railquiz/internal/session"
)

const (
	msgUnreachable    = "Could not connect to the local model. Please ensure Ollama is running."
	msgGeneration     = "Could not generate a question at this time."
	msgSessionMissing = "Could not verify the answer. Please restart the quiz."
)

type errorBody struct {
	Error string `json:"error"`
}

// GET /get-question
func GetQuestionHandler(svc *quiz.Service, sm *session.Manager, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sm.StateFor(r.Context())
		if err != nil {
			log.Error("Error generating question with Ollama", "err", err)
			respondJSON(w, http.StatusInternalServerError, errorBody{msgGeneration})
			return
		}
		q, err := svc.GetQuestion(r.Context(), st)
		switch {
		case errors.Is(err, quiz.ErrModelUnreachable):
			respondJSON(w, http.StatusInternalServerError, errorBody{msgUnreachable})
		case err != nil:
			respondJSON(w, http.StatusInternalServerError, errorBody{msgGeneration})
		default:
			respondJSON(w, http.StatusOK, q)
		}
	}
}

// POST /check-answer  { "selected_option": "..." }
func CheckAnswerHandler(svc *quiz.Service, sm *session.Manager, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SelectedOption any `json:"selected_option"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Bad check-answer body", "err", err)
			respondJSON(w, http.StatusBadRequest, errorBody{"bad json"})
			return
		}
		st, err := sm.StateFor(r.Context())
		if err != nil {
			log.Error("Correct answer not found in session.", "err", err)
			respondJSON(w, http.StatusBadRequest, errorBody{msgSessionMissing})
			return
		}
		// a non-string selection never equals the stored answer
		selected, _ := req.SelectedOption.(string)
		v, err := svc.CheckAnswer(r.Context(), st, selected)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody{msgSessionMissing})
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
