// Seeds a handful of demo submissions through the configured store so the
// history, map and admin views have data during local frontend work.
//
// Usage: go run ./cmd/seed
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"github.com/KisanMitra/KM-Backend/internal/submissions"
)

type demo struct {
	crop, location, date string
	lat, lng             float64
	risk                 string
	conditions           string
	choice               *string
}

func main() {
	_ = godotenv.Load(".env.local")
	submissions.Init()

	changeCrop := submissions.ChoiceChange
	carryOn := submissions.ChoiceContinue

	demos := []demo{
		{"Mango", "Hyderabad, Telangana", "2026-03-01", 17.385, 78.4867, "high",
			"Pre-monsoon heat waves with below-average humidity", &changeCrop},
		{"Rice", "Thanjavur, Tamil Nadu", "2026-06-15", 10.787, 79.1378, "low",
			"Normal southwest monsoon onset expected", &carryOn},
		{"Cotton", "Nagpur, Maharashtra", "2026-05-20", 21.1458, 79.0882, "medium",
			"Erratic early rains, risk of bollworm-friendly humidity", nil},
	}

	for _, d := range demos {
		full, _ := json.Marshal(map[string]any{
			"riskLevel":          d.risk,
			"climaticConditions": d.conditions,
			"advisory": map[string]string{
				"explanation": "Seeded demo analysis for " + d.crop,
				"optionA":     "Switch to a hardier crop this season.",
				"optionB":     "Continue planting with precautions.",
			},
		})

		lat, lng := d.lat, d.lng
		sub, err := submissions.Current.Append(submissions.SubmissionInput{
			Crop:               d.crop,
			Location:           d.location,
			Date:               d.date,
			Lat:                &lat,
			Lng:                &lng,
			RiskLevel:          d.risk,
			ClimaticConditions: d.conditions,
			FullAnalysis:       datatypes.JSON(full),
		})
		if err != nil {
			log.Fatalf("seeding %s: %v", d.crop, err)
		}
		if d.choice != nil {
			if _, err := submissions.Current.UpdateChoice(sub.ID, d.choice); err != nil {
				log.Fatalf("setting choice on %s: %v", d.crop, err)
			}
		}
		log.Printf("seeded %s (%s) id=%s", d.crop, d.risk, sub.ID)
	}
}
