package handler

import (
	"net/http"

	"github.com/Roja8626/tech-mock/internal/api/middleware"
	"github.com/Roja8626/tech-mock/internal/app/service"
	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	authenticator   func(http.Handler) http.Handler
}

func NewQuestionHandler(qs *service.QuestionService, authenticator func(http.Handler) http.Handler) *QuestionHandler {
	return &QuestionHandler{questionService: qs, authenticator: authenticator}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.authenticator)
	r.Get("/", h.listQuestions) // GET /api/v1/questions?category=React

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createQuestion)
		adminRouter.Post("/generate", h.generateQuestions)
		adminRouter.Delete("/{questionID}", h.deleteQuestion)
	})
}

// listQuestions shows the answer key to admins only.
func (h *QuestionHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	var (
		qs  []model.Question
		err error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		qs, err = h.questionService.ListByCategory(r.Context(), category)
	} else {
		qs, err = h.questionService.ListQuestions(r.Context())
	}
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	if user.IsAdmin() {
		common.RespondWithJSON(w, http.StatusOK, qs)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, model.Views(qs))
}

func (h *QuestionHandler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuestionRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.questionService.CreateQuestion(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")
	if err := h.questionService.DeleteQuestion(r.Context(), questionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuestionHandler) generateQuestions(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.questionService.GenerateQuestions(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, result)
}
