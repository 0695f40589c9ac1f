package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is one audited prediction.
type PredictionRecord struct {
	ID                  string             `json:"id"`
	CreatedAt           time.Time          `json:"created_at"`
	Inputs              map[string]float64 `json:"inputs"`
	RawProbability      float64            `json:"raw_probability"`
	AdjustedProbability *float64           `json:"adjusted_probability,omitempty"`
	Adjusted            bool               `json:"adjusted"`
	PiTrain             float64            `json:"pi_train"`
	PiDeploy            *float64           `json:"pi_deploy,omitempty"`
}

// Repository handles audit-store operations.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// InsertPrediction records one prediction. The record id doubles as the
// request id when the caller supplies one.
func (r *Repository) InsertPrediction(rec *PredictionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	inputs, err := json.Marshal(rec.Inputs)
	if err != nil {
		return fmt.Errorf("failed to encode inputs: %w", err)
	}

	var adjusted sql.NullFloat64
	if rec.AdjustedProbability != nil {
		adjusted = sql.NullFloat64{Float64: *rec.AdjustedProbability, Valid: true}
	}
	var piDeploy sql.NullFloat64
	if rec.PiDeploy != nil {
		piDeploy = sql.NullFloat64{Float64: *rec.PiDeploy, Valid: true}
	}

	_, err = r.db.Exec(`
		INSERT INTO predictions (id, created_at, inputs, raw_probability, adjusted_probability, adjusted, pi_train, pi_deploy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt, string(inputs), rec.RawProbability, adjusted, rec.Adjusted, rec.PiTrain, piDeploy)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// RecentPredictions returns the latest records, newest first.
func (r *Repository) RecentPredictions(limit int) ([]PredictionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, created_at, inputs, raw_probability, adjusted_probability, adjusted, pi_train, pi_deploy
		FROM predictions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		var inputs string
		var adjusted, piDeploy sql.NullFloat64

		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &inputs, &rec.RawProbability,
			&adjusted, &rec.Adjusted, &rec.PiTrain, &piDeploy); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}

		if err := json.Unmarshal([]byte(inputs), &rec.Inputs); err != nil {
			return nil, fmt.Errorf("failed to decode inputs: %w", err)
		}
		if adjusted.Valid {
			rec.AdjustedProbability = &adjusted.Float64
		}
		if piDeploy.Valid {
			rec.PiDeploy = &piDeploy.Float64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
