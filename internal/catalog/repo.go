package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/printcrm/internal/repo"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the pricefull table.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// ListProductNames returns distinct product names, optionally filtered by a
// case-insensitive substring.
func (r *Repository) ListProductNames(ctx context.Context, query string) ([]string, error) {
	q := r.base.DB(ctx).
		Model(&models.PriceEntry{}).
		Distinct("product_name")
	if term := strings.TrimSpace(query); term != "" {
		q = q.Where("LOWER(product_name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(term))+"%")
	}
	names := []string{}
	if err := q.Order("product_name").Pluck("product_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// ListSpecifications returns the distinct specifications of productName.
func (r *Repository) ListSpecifications(ctx context.Context, productName string) ([]string, error) {
	specs := []string{}
	err := r.base.DB(ctx).
		Model(&models.PriceEntry{}).
		Distinct("product_specification").
		Where("product_name = ?", productName).
		Order("product_specification").
		Pluck("product_specification", &specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}

// FindPrice loads the row for (productName, specification).
func (r *Repository) FindPrice(ctx context.Context, productName, specification string) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.base.DB(ctx).
		Where("product_name = ? AND product_specification = ?", productName, specification).
		Order("id").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindLimits loads the first row of productName, preferring rows that carry
// a max side.
func (r *Repository) FindLimits(ctx context.Context, productName string) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.base.DB(ctx).
		Where("product_name = ?", productName).
		Order("CASE WHEN max_side IS NULL THEN 1 ELSE 0 END").
		Order("id").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a price row.
func (r *Repository) Create(ctx context.Context, entry *models.PriceEntry) error {
	return r.base.DB(ctx).Create(entry).Error
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
