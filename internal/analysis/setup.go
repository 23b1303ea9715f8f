package analysis

import (
	"os"

	"github.com/KisanMitra/KM-Backend/internal/analysis/geocode"
	"github.com/KisanMitra/KM-Backend/internal/analysis/provider"
	"github.com/KisanMitra/KM-Backend/internal/logger"

	// Import providers to register them via init()
	_ "github.com/KisanMitra/KM-Backend/internal/analysis/mock"
	_ "github.com/KisanMitra/KM-Backend/internal/analysis/openai"
)

// Gateway is the active analysis provider. Nil when configuration is
// incomplete; handlers answer 503 until it is set.
var Gateway provider.AnalysisProvider

// Geocoder is the optional coordinate fallback. Nil when no key is set.
var Geocoder *geocode.Client

// Log is the module logger, set in Init.
var Log *logger.Logger

func Init(log *logger.Logger) {
	Log = log.With("module", "analysis")

	cfg := provider.LoadFromEnv()
	gw, err := provider.NewProvider(cfg)
	if err != nil {
		// A missing key is a configuration error surfaced on use, not fatal
		// at startup.
		Log.Warn("analysis provider not initialized, endpoints will answer 503",
			"provider", string(cfg.Provider), "error", err.Error())
		Gateway = nil
	} else {
		Gateway = gw
		Log.Info("analysis provider initialized", "provider", gw.Name())
	}

	Geocoder, err = geocode.NewClient()
	if err != nil {
		Log.Warn("geocoder not initialized", "error", err.Error())
	}
	if Geocoder == nil && os.Getenv("GOOGLE_MAPS_API_KEY") == "" {
		Log.Info("geocode fallback disabled (GOOGLE_MAPS_API_KEY not set)")
	}
}
