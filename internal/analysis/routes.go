package analysis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KisanMitra/KM-Backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Model calls are metered and slow; keep bursts off the provider.
	r.Use(middleware.RateLimitMiddleware(middleware.RateLimitFromEnv()))

	r.Post("/analyze", AnalyzeHandler)
	r.Post("/extract", ExtractHandler)
	r.Post("/speak", SpeakHandler)
	r.Post("/followup", FollowUpHandler)

	return r
}
