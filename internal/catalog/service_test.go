package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

func newSeededService(t *testing.T) Service {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	seedCatalog(t, repo)
	svc, err := NewService(repo, pricing.DefaultLimits())
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, pricing.DefaultLimits())
	require.Error(t, err)
}

func TestServicePriceRate(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	rate, err := svc.PriceRate(ctx, "Banner", "Glossy")
	require.NoError(t, err)
	require.Equal(t, "50.00", rate.PricePerM2.StringFixed(2))

	_, err = svc.PriceRate(ctx, "Banner", "Satin")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.PriceRate(ctx, "Sticker", "Die-cut")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "null price should read as not found")

	_, err = svc.PriceRate(ctx, " ", "Glossy")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceSizeLimits(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	limits, err := svc.SizeLimits(ctx, "Sticker")
	require.NoError(t, err)
	require.True(t, limits.MaxSide.Equal(decimal.RequireFromString("1.2")))
	require.True(t, limits.ExtraSupply.IsZero(), "stored zero extra supply is honored")

	limits, err = svc.SizeLimits(ctx, "Poster 100%")
	require.NoError(t, err)
	require.True(t, limits.MaxSide.Equal(pricing.DefaultMaxSide))
	require.True(t, limits.ExtraSupply.Equal(pricing.DefaultExtraSupply))

	_, err = svc.SizeLimits(ctx, "Canvas")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceSpecificationsAndProducts(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	specs, err := svc.Specifications(ctx, "Sticker")
	require.NoError(t, err)
	require.Equal(t, []string{"Die-cut", "Vinyl"}, specs)

	products, err := svc.ListProducts(ctx, "ban")
	require.NoError(t, err)
	require.Equal(t, []string{"Banner"}, products)
}

type failingRepo struct{}

func (failingRepo) ListProductNames(context.Context, string) ([]string, error) {
	return nil, errors.New("connection reset")
}
func (failingRepo) ListSpecifications(context.Context, string) ([]string, error) {
	return nil, errors.New("connection reset")
}
func (failingRepo) FindPrice(context.Context, string, string) (*models.PriceEntry, error) {
	return nil, errors.New("connection reset")
}
func (failingRepo) FindLimits(context.Context, string) (*models.PriceEntry, error) {
	return nil, errors.New("connection reset")
}

func TestServiceMapsStorageFailuresToDependency(t *testing.T) {
	svc, err := NewService(failingRepo{}, pricing.DefaultLimits())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Specifications(ctx, "Banner")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	_, err = svc.PriceRate(ctx, "Banner", "Glossy")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	_, err = svc.SizeLimits(ctx, "Banner")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	_, err = svc.ListProducts(ctx, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
