// Package overlay reads the authoritative ingredient record store. The
// scan pipeline treats every lookup as best-effort: a failure here means
// "no override", never a failed scan. Writes belong to the seeding
// process, not to this core.
package overlay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"shelfsafe/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Lookup returns the record for a slug, or (nil, nil) when no record
// exists.
func (r *Repo) Lookup(ctx context.Context, slug string) (*models.IngredientRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT slug, name, risk, notes, regulatory_notes, category, sources, aliases, health_flags
		FROM ingredients
		WHERE slug = ?
	`, slug)

	var (
		rec         models.IngredientRecord
		notes       sql.NullString
		regNotes    sql.NullString
		category    sql.NullString
		sourcesJSON sql.NullString
		aliasesJSON sql.NullString
		flagsJSON   sql.NullString
	)

	if err := row.Scan(
		&rec.Slug, &rec.Name, &rec.Risk, &notes, &regNotes, &category,
		&sourcesJSON, &aliasesJSON, &flagsJSON,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan lookup: %w", err)
	}

	rec.Notes = notes.String
	rec.RegulatoryNotes = regNotes.String
	rec.Category = category.String

	if sourcesJSON.Valid {
		_ = json.Unmarshal([]byte(sourcesJSON.String), &rec.Sources)
	}
	if aliasesJSON.Valid {
		_ = json.Unmarshal([]byte(aliasesJSON.String), &rec.Aliases)
	}
	if flagsJSON.Valid {
		_ = json.Unmarshal([]byte(flagsJSON.String), &rec.HealthFlags)
	}

	return &rec, nil
}
