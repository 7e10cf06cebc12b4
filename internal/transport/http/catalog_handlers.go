package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lms-service/internal/domain"
)

func (h *handlers) listPublishedCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Catalog.ListCourses(r.Context(), true)
	if err != nil {
		writeError(w, err, "failed to fetch courses")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(courses))
}

func (h *handlers) publishedCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.Catalog.CourseBySlug(r.Context(), chi.URLParam(r, "slug"), false)
	if err != nil {
		writeError(w, err, "failed to fetch course")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *handlers) courseDecks(w http.ResponseWriter, r *http.Request) {
	course, err := h.Catalog.CourseBySlug(r.Context(), chi.URLParam(r, "slug"), false)
	if err != nil {
		writeError(w, err, "failed to fetch decks")
		return
	}
	decks, err := h.Catalog.ListDecks(r.Context(), course.ID)
	if err != nil {
		writeError(w, err, "failed to fetch decks")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(decks))
}

func (h *handlers) getDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.Catalog.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err, "failed to fetch deck")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (h *handlers) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Catalog.ListCourses(r.Context(), false)
	if err != nil {
		writeError(w, err, "failed to fetch courses")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(courses))
}

func (h *handlers) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to create course")
		return
	}
	course, err := h.Catalog.CreateCourse(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err, "failed to create course")
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *handlers) getCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.Catalog.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err, "failed to fetch course")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *handlers) updateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to update course")
		return
	}
	course, err := h.Catalog.UpdateCourse(r.Context(), chi.URLParam(r, "courseID"), req.toDomain())
	if err != nil {
		writeError(w, err, "failed to update course")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *handlers) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteCourse(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		writeError(w, err, "failed to delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) addDay(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to add day")
		return
	}
	day, err := h.Catalog.AddDay(r.Context(), chi.URLParam(r, "courseID"), domain.Day{
		Position: req.Position,
		Title:    req.Title,
		Summary:  req.Summary,
	})
	if err != nil {
		writeError(w, err, "failed to add day")
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (h *handlers) addResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to add resource")
		return
	}
	res, err := h.Catalog.AddResource(r.Context(), chi.URLParam(r, "dayID"), domain.Resource{
		Kind:     domain.ResourceKind(req.Kind),
		Title:    req.Title,
		URL:      req.URL,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, err, "failed to add resource")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) saveQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to save quiz")
		return
	}
	quiz, err := h.Catalog.SaveQuiz(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err, "failed to save quiz")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *handlers) adminQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.Catalog.Quiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err, "failed to fetch quiz")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *handlers) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.Catalog.ListQuizzes(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err, "failed to fetch quizzes")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(quizzes))
}

func (h *handlers) createDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to create deck")
		return
	}
	deck, err := h.Catalog.CreateDeck(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err, "failed to create deck")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
