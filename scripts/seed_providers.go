// seed_providers.go — standalone script to parse a provider CSV and seed it via the vendormatch API.
//
// Usage:
//
//	go run scripts/seed_providers.go -csv providers.csv -api http://localhost:8700 -tenant demo
//
// CSV columns: name,category,rating[,email,phone]
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type providerRow struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating,omitempty"`
	ContactEmail string  `json:"contact_email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
}

func main() {
	csvPath := flag.String("csv", "providers.csv", "path to provider CSV file")
	apiURL := flag.String("api", "http://localhost:8700", "vendormatch API base URL")
	tenantID := flag.String("tenant", "demo", "X-Tenant-ID header value")
	dryRun := flag.Bool("dry-run", false, "print rows without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open %s: %v", *csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("parse %s: %v", *csvPath, err)
	}

	var rows []providerRow
	for i, rec := range records {
		if len(rec) < 2 {
			log.Printf("line %d: need at least name and category, skipping", i+1)
			continue
		}
		name := strings.TrimSpace(rec[0])
		if i == 0 && strings.EqualFold(name, "name") {
			continue // header row
		}
		row := providerRow{Name: name, Category: strings.TrimSpace(rec[1])}
		if len(rec) > 2 && rec[2] != "" {
			rating, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
			if err != nil || rating < 0 || rating > 5 {
				log.Printf("line %d: bad rating %q, skipping", i+1, rec[2])
				continue
			}
			row.Rating = rating
		}
		if len(rec) > 3 {
			row.ContactEmail = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			row.Phone = strings.TrimSpace(rec[4])
		}
		rows = append(rows, row)
	}

	log.Printf("parsed %d providers from %s", len(rows), *csvPath)

	if *dryRun {
		for i, row := range rows {
			fmt.Printf("[%d] %s (category=%s, rating=%.1f)\n", i+1, row.Name, row.Category, row.Rating)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, row := range rows {
		body, _ := json.Marshal(row)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/providers", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", row.Name, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", *tenantID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", row.Name, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", row.Name, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
