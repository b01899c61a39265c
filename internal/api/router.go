package api

import (
	"net/http"
	"time"

	"github.com/Roja8626/tech-mock/internal/api/handler"
	"github.com/Roja8626/tech-mock/internal/api/middleware"
	"github.com/Roja8626/tech-mock/internal/app/service"
	"github.com/Roja8626/tech-mock/internal/common/security"
	"github.com/Roja8626/tech-mock/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	questionService *service.QuestionService,
	testService *service.TestService,
	requestTimeout time.Duration,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))

	// Looks for "Authorization: Bearer T" and puts the verified token in the context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	authenticator := middleware.NewAuthenticator(authService)

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		questionHandler := handler.NewQuestionHandler(questionService, authenticator)
		v1.Route("/questions", questionHandler.RegisterRoutes)

		testHandler := handler.NewTestHandler(testService, authenticator)
		v1.Route("/tests", testHandler.RegisterRoutes)
	})

	return r
}
