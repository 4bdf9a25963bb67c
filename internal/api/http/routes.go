package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/railquiz/internal/quiz"
	"github.com/mind-engage/railquiz/internal/session"
	"github.com/mind-engage/railquiz/internal/web"
)

// MountQuiz registers the pages, the static assets and the JSON endpoints.
// Everything except /static runs inside the session middleware.
func MountQuiz(r chi.Router, svc *quiz.Service, sm *session.Manager, pages *web.Pages, log *slog.Logger) {
	r.Handle("/static/*", web.Static())

	r.Group(func(sr chi.Router) {
		sr.Use(sm.Middleware)

		sr.Get("/", PageHandler(pages, web.PageIndex, "Main page accessed", log))
		sr.Get("/quiz", PageHandler(pages, web.PageQuiz, "Quiz page accessed", log))
		sr.Get("/score", ScoreHandler(pages, log))

		sr.Get("/get-question", GetQuestionHandler(svc, sm, log))
		sr.Post("/check-answer", CheckAnswerHandler(svc, sm, log))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}
