package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mind-engage/pseudocheck/internal/question"
	"github.com/mind-engage/pseudocheck/internal/submission"
)

// GET /api/questions/{id}/stats
func QuestionStatsHandler(store question.Store, subs *submission.Repo, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := questionIDParam(w, r)
		if !ok {
			return
		}
		if !questionExists(w, r, store, id, log) {
			return
		}
		st, err := subs.Stats(r.Context(), id)
		if err != nil {
			serverError(w, r, log, "Server error while fetching stats", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": st})
	}
}

// GET /api/questions/{id}/submissions?limit=
func ListSubmissionsHandler(store question.Store, subs *submission.Repo, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := questionIDParam(w, r)
		if !ok {
			return
		}
		if !questionExists(w, r, store, id, log) {
			return
		}
		recs, err := subs.Recent(r.Context(), id, parseIntDefault(r.URL.Query().Get("limit"), 0))
		if err != nil {
			serverError(w, r, log, "Server error while fetching submissions", err)
			return
		}
		if recs == nil {
			recs = []submission.Record{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(recs),
			"data":    recs,
		})
	}
}

func questionExists(w http.ResponseWriter, r *http.Request, store question.Store, id int64, log *slog.Logger) bool {
	_, err := store.GetQuestion(r.Context(), id)
	switch {
	case errors.Is(err, question.ErrNotFound):
		writeError(w, http.StatusNotFound, "Question not found")
		return false
	case err != nil:
		serverError(w, r, log, "Server error while fetching question", err)
		return false
	}
	return true
}
