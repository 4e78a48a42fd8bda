// seed-ingredients is the independent process that owns writes to the
// overlay store. It upserts authoritative ingredient records from a JSON
// file; the scan pipeline itself never writes.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shelfsafe/internal/normalize"
	"shelfsafe/pkg/database"
	"shelfsafe/pkg/models"
)

func main() {
	var (
		dbPath = flag.String("db", "", "sqlite path (default: config default)")
		file   = flag.String("file", "data/ingredients.json", "input JSON path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := database.Config{Path: *dbPath}
	if cfg.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		cfg.Path = filepath.Join(home, ".shelfsafe", "data.db")
	}

	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := seed(ctx, db, *file)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seeded %d ingredient record(s) from %s into %s", n, *file, cfg.Path)
}

func seed(ctx context.Context, db *sql.DB, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var records []models.IngredientRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO ingredients (slug, name, risk, notes, regulatory_notes, category, sources, aliases, health_flags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slug) DO UPDATE SET
		  name = excluded.name,
		  risk = excluded.risk,
		  notes = excluded.notes,
		  regulatory_notes = excluded.regulatory_notes,
		  category = excluded.category,
		  sources = excluded.sources,
		  aliases = excluded.aliases,
		  health_flags = excluded.health_flags,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		slug := rec.Slug
		if slug == "" {
			slug = normalize.Slugify(name)
		}
		if slug == "" || name == "" {
			continue
		}

		sources, err := json.Marshal(rec.Sources)
		if err != nil {
			return count, fmt.Errorf("marshal sources for %s: %w", slug, err)
		}
		aliases, err := json.Marshal(rec.Aliases)
		if err != nil {
			return count, fmt.Errorf("marshal aliases for %s: %w", slug, err)
		}
		healthFlags, err := json.Marshal(rec.HealthFlags)
		if err != nil {
			return count, fmt.Errorf("marshal health flags for %s: %w", slug, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			slug,
			name,
			normalize.Risk(rec.Risk),
			nullString(rec.Notes),
			nullString(rec.RegulatoryNotes),
			nullString(rec.Category),
			string(sources),
			string(aliases),
			string(healthFlags),
		); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func nullString(raw string) sql.NullString {
	if strings.TrimSpace(raw) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
