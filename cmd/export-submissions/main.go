// Exports the submissions table to CSV for offline analysis.
//
// Usage:
//
//	go run ./cmd/export-submissions -dsn "$DATABASE_URL" -out submissions.csv
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	out := flag.String("out", "submissions.csv", "output CSV path")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("no DSN: pass -dsn or set DATABASE_URL")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal("opening database: ", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, crop, location, date,
		       COALESCE(lat::text, ''), COALESCE(lng::text, ''),
		       risk_level, climatic_conditions,
		       COALESCE(choice, ''), timestamp
		FROM submissions
		ORDER BY timestamp`)
	if err != nil {
		log.Fatal("querying submissions: ", err)
	}
	defer rows.Close()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("creating output file: ", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"id", "crop", "location", "date", "lat", "lng", "risk_level", "climatic_conditions", "choice", "timestamp"})

	count := 0
	for rows.Next() {
		var id, crop, location, date, lat, lng, risk, conditions, choice, ts string
		if err := rows.Scan(&id, &crop, &location, &date, &lat, &lng, &risk, &conditions, &choice, &ts); err != nil {
			log.Fatal("scanning row: ", err)
		}
		if err := w.Write([]string{id, crop, location, date, lat, lng, risk, conditions, choice, ts}); err != nil {
			log.Fatal("writing row: ", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatal("reading rows: ", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("flushing csv: ", err)
	}
	fmt.Printf("exported %d submissions to %s\n", count, *out)
}
