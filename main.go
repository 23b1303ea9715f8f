package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/KisanMitra/KM-Backend/internal/analysis"
	"github.com/KisanMitra/KM-Backend/internal/logger"
	"github.com/KisanMitra/KM-Backend/internal/middleware"
	"github.com/KisanMitra/KM-Backend/internal/submissions"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("Server is up!\n"))
}

func main() {
	_ = godotenv.Load(".env.local")

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	submissions.Init()
	analysis.Init(log)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/api", submissions.SetupRoutes())
	r.Mount("/api/ai", analysis.SetupRoutes())

	log.Info("server listening", "port", port)
	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal("server exited", "error", err.Error())
	}
}
