package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jdocmanual-finder/internal/database"
	"github.com/jdocmanual-finder/internal/models"
)

// extensionRepo is the concrete implementation of ExtensionRepository
type extensionRepo struct {
	db database.Querier
}

// NewExtensionRepo creates a new extension repository
func NewExtensionRepo(db database.Querier) ExtensionRepository {
	return &extensionRepo{db: db}
}

// IsEnabled reports whether the component is installed and enabled
func (r *extensionRepo) IsEnabled(ctx context.Context, element string) (bool, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx,
		"SELECT enabled FROM extensions WHERE element = $1 AND type = 'component'", element,
	).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return enabled, err
}

// Params returns the component-level parameters stored as JSON
func (r *extensionRepo) Params(ctx context.Context, element string) (models.Params, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT params FROM extensions WHERE element = $1 AND type = 'component'", element,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.Params{}, nil
	}
	if err != nil {
		return models.Params{}, err
	}

	var params models.Params
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return models.Params{}, fmt.Errorf("invalid params for %s: %w", element, err)
		}
	}
	return params, nil
}
