package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/railquiz/internal/web"
)

const (
	defaultScore = 0
	defaultTotal = 5
)

// PageHandler renders a parameterless page and logs the visit.
func PageHandler(pages *web.Pages, page, logMsg string, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info(logMsg)
		if err := pages.Render(w, page, nil); err != nil {
			log.Error("render page", "page", page, "err", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// GET /score?score=N&total=M
func ScoreHandler(pages *web.Pages, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := web.ScoreData{
			Score: queryInt(q.Get("score"), defaultScore),
			Total: queryInt(q.Get("total"), defaultTotal),
		}
		log.Info("Score page accessed", "score", data.Score, "total", data.Total)
		if err := pages.Render(w, web.PageScore, data); err != nil {
			log.Error("render page", "page", web.PageScore, "err", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// queryInt falls back to def when v is absent or not an integer.
func queryInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}
