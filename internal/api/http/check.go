package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/question"
)

type checkRequest struct {
	QuestionID any `json:"questionId"`
	UserCode   any `json:"userCode"`
}

type checkResponse struct {
	Success bool                  `json:"success"`
	Status  grading.Status        `json:"status"`
	Errors  []grading.Discrepancy `json:"errors"`
}

// POST /api/check-pseudocode {questionId, userCode}
func CheckPseudocodeHandler(svc *question.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r, "Missing fields")
		if !ok {
			return
		}
		var req checkRequest
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Missing fields")
			return
		}
		id, idOK := parseQuestionID(req.QuestionID)
		code, codeOK := req.UserCode.(string)
		if !idOK || !codeOK || code == "" {
			writeError(w, http.StatusBadRequest, "Missing fields")
			return
		}

		v, err := svc.Grade(r.Context(), id, code)
		if errors.Is(err, question.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		if err != nil {
			serverError(w, r, log, "Server error while checking pseudocode", err)
			return
		}
		errs := v.Discrepancies
		if errs == nil {
			errs = []grading.Discrepancy{}
		}
		writeJSON(w, http.StatusOK, checkResponse{Success: true, Status: v.Status, Errors: errs})
	}
}

// parseQuestionID accepts a JSON number or a numeric string. Zero and
// negative ids count as missing.
func parseQuestionID(v any) (int64, bool) {
	var (
		id  int64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		id, err = t.Int64()
	case string:
		id, err = strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, false
	}
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
