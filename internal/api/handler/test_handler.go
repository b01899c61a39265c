package handler

import (
	"net/http"

	"github.com/Roja8626/tech-mock/internal/api/middleware"
	"github.com/Roja8626/tech-mock/internal/app/service"
	"github.com/Roja8626/tech-mock/internal/common"

	"github.com/go-chi/chi/v5"
)

type TestHandler struct {
	testService   *service.TestService
	authenticator func(http.Handler) http.Handler
}

func NewTestHandler(ts *service.TestService, authenticator func(http.Handler) http.Handler) *TestHandler {
	return &TestHandler{testService: ts, authenticator: authenticator}
}

func (h *TestHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.authenticator)
	r.Post("/attempts", h.startAttempt)
	r.Post("/attempts/{attemptID}/submit", h.submitAttempt)
	r.Get("/history", h.history)
	r.Get("/stats", h.stats)
	r.Get("/results/{resultID}", h.review)
}

// startAttempt returns the drawn questions without the answer key.
func (h *TestHandler) startAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	attempt, err := h.testService.BuildAttempt(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, attempt.View())
}

func (h *TestHandler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitAttemptRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.testService.SubmitAttempt(r.Context(), userID, chi.URLParam(r, "attemptID"), req.Answers)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *TestHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	results, err := h.testService.History(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, results)
}

func (h *TestHandler) stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	stats, err := h.testService.Stats(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *TestHandler) review(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	review, err := h.testService.Review(r.Context(), user, chi.URLParam(r, "resultID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, review)
}
