package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kasyap600/AlgoPath/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm stores documents in PostgreSQL as jsonb. Merges happen in the
// database with the jsonb concatenation operator so concurrent writers of
// different fields never overwrite each other.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Get(ctx context.Context, path string) (Document, bool, error) {
	var row models.Document
	err := g.db.WithContext(ctx).First(&row, "path = ?", path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}
	doc, err := decode(row.Data)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, true, nil
}

func (g *Gorm) Set(ctx context.Context, path string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	row := models.Document{Path: path, Data: raw, UpdatedAt: time.Now().UTC()}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       gorm.Expr("documents.data || excluded.data"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// unionExpr rebuilds the array at the given key from the stored and the
// incoming elements. A stored value that is not an array is dropped.
const unionExpr = `documents.data || excluded.data || jsonb_build_object(?::text, (
	SELECT COALESCE(jsonb_agg(v ORDER BY v), '[]'::jsonb) FROM (
		SELECT jsonb_array_elements(CASE WHEN jsonb_typeof(documents.data -> ?) = 'array'
			THEN documents.data -> ? ELSE '[]'::jsonb END) AS v
		UNION
		SELECT jsonb_array_elements(excluded.data -> ?)
	) AS u))`

func (g *Gorm) Union(ctx context.Context, path, field string, values []string, fields Document) error {
	raw, err := json.Marshal(unionFields(fields, field, values))
	if err != nil {
		return err
	}
	row := models.Document{Path: path, Data: raw, UpdatedAt: time.Now().UTC()}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       gorm.Expr(unionExpr, field, field, field, field),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("union %s.%s: %w", path, field, err)
	}
	return nil
}

func (g *Gorm) List(ctx context.Context, prefix string) (map[string]Document, error) {
	var rows []models.Document
	err := g.db.WithContext(ctx).
		Where("LEFT(path, char_length(?)) = ?", prefix, prefix).
		Order("path").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	out := make(map[string]Document, len(rows))
	for _, row := range rows {
		doc, err := decode(row.Data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", row.Path, err)
		}
		out[row.Path] = doc
	}
	return out, nil
}

func (g *Gorm) Delete(ctx context.Context, path string) error {
	if err := g.db.WithContext(ctx).Delete(&models.Document{}, "path = ?", path).Error; err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
