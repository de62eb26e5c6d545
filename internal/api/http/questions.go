package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/pseudocheck/internal/catalog"
	"github.com/mind-engage/pseudocheck/internal/question"
	"github.com/mind-engage/pseudocheck/internal/rbac"
)

// GET /api/questions?difficulty=easy,medium&q=&limit=&offset=
func ListQuestionsHandler(store question.Store, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		list, err := store.ListQuestions(r.Context(), question.ListOpts{
			Difficulties: question.ParseDifficulties(qs.Get("difficulty")),
			Q:            strings.TrimSpace(qs.Get("q")),
			Limit:        parseIntDefault(qs.Get("limit"), 0),
			Offset:       parseIntDefault(qs.Get("offset"), 0),
		})
		if err != nil {
			serverError(w, r, log, "Server error while fetching questions", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(list),
			"data":    list,
		})
	}
}

// GET /api/questions/{id}
// Reference answers are only included for callers allowed to see them,
// unless exposeAnswers is set.
func GetQuestionHandler(store question.Store, exposeAnswers bool, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := questionIDParam(w, r)
		if !ok {
			return
		}
		q, err := store.GetQuestion(r.Context(), id)
		if errors.Is(err, question.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Success: false})
			return
		}
		if err != nil {
			serverError(w, r, log, "Server error while fetching question", err)
			return
		}
		if !exposeAnswers && !rbac.Can(r.Context(), "question:answers") {
			q = q.WithoutAnswers()
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": q})
	}
}

// POST /api/questions creates or replaces a question with its answers.
func PutQuestionHandler(store question.Store, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r, "bad request body")
		if !ok {
			return
		}
		var e catalog.Entry
		if err := json.Unmarshal(body, &e); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if err := catalog.Validate(&catalog.Catalog{Questions: []catalog.Entry{e}}); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q, err := store.PutQuestion(r.Context(), e.Question())
		if err != nil {
			serverError(w, r, log, "Server error while saving question", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": q})
	}
}

// DELETE /api/questions/{id}
func DeleteQuestionHandler(store question.Store, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := questionIDParam(w, r)
		if !ok {
			return
		}
		err := store.DeleteQuestion(r.Context(), id)
		if errors.Is(err, question.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		if err != nil {
			serverError(w, r, log, "Server error while deleting question", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func questionIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
