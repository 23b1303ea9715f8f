package submissions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/submissions", ListHandler)
	r.Post("/submissions", CreateHandler)
	r.Patch("/submissions/{id}/choice", UpdateChoiceHandler)
	r.Delete("/submissions", ClearHandler)
	r.Get("/admin/stats", StatsHandler)
	r.Get("/health", HealthHandler)

	return r
}
