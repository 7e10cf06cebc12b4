package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *handlers) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.Quizzes.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err, "failed to fetch quiz")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *handlers) startAttempt(w http.ResponseWriter, r *http.Request) {
	var req startAttemptRequest
	if r.ContentLength > 0 {
		if err := decode(w, r, h.validate, &req); err != nil {
			writeError(w, err, "failed to start attempt")
			return
		}
	}
	attempt, err := h.Quizzes.StartAttempt(r.Context(), chi.URLParam(r, "quizID"), req.SessionID)
	if err != nil {
		writeError(w, err, "failed to start attempt")
		return
	}
	writeJSON(w, http.StatusCreated, attemptResponse{Attempt: attempt})
}

func (h *handlers) submitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to submit attempt")
		return
	}
	attempt, result, err := h.Quizzes.SubmitAttempt(r.Context(), chi.URLParam(r, "attemptID"), req.toDomain())
	if err != nil {
		writeError(w, err, "failed to submit attempt")
		return
	}
	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Result: &result})
}

func (h *handlers) getAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, result, err := h.Quizzes.GetResult(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		writeError(w, err, "failed to fetch attempt")
		return
	}
	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Result: &result})
}
