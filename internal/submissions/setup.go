package submissions

import (
	"log"
	"os"

	"github.com/KisanMitra/KM-Backend/internal/db"
)

// DefaultFilePath is the JSON document used when no database is configured.
const DefaultFilePath = "data/submissions.json"

// Init selects and wires the store backend. DATABASE_URL or SQLITE_PATH
// selects the gorm-backed store; otherwise the JSON file store is used
// (SUBMISSIONS_FILE overrides its location).
func Init() {
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("SQLITE_PATH") != "" {
		db.Connect()
		store, err := NewDBStore(db.DB)
		if err != nil {
			log.Fatal("Failed to migrate submissions table: ", err)
		}
		Current = store
		log.Println("[submissions] using database store")
		return
	}

	path := os.Getenv("SUBMISSIONS_FILE")
	if path == "" {
		path = DefaultFilePath
	}
	store, err := NewFileStore(path)
	if err != nil {
		log.Fatal("Failed to open submissions file: ", err)
	}
	Current = store
	log.Printf("[submissions] using file store at %s", path)
}
