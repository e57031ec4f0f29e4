package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/printcrm/pkg/db"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/migrate"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(migrate.Models()...))
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn))
	require.NoError(t, err)
	return svc, conn
}

func TestSubmitOrderPersistsOrderAndItems(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	payload := Assemble(BillingFields{
		StaffName:      "Linh",
		CustomerName:   "ACME",
		PhoneNo:        "0901",
		PaymentMethod:  "cash",
		DeliveryMethod: "pickup",
		Discount:       "10",
	}, nil)
	payload.LineItems = append(payload.LineItems, lineItem("Banner", "300"), lineItem("Sticker", "45.5"))
	payload.AmountToPay = decimal.RequireFromString("335.5")

	id, err := svc.SubmitOrder(ctx, payload)
	require.NoError(t, err)
	require.Positive(t, id)

	var count int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("order_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	got, err := svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Linh", got.StaffName)
	assert.Equal(t, "cash", got.PaymentMethod)
	assert.True(t, got.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.AmountToPay.Equal(decimal.RequireFromString("335.5")))
	require.Len(t, got.ProductDetails, 2)
	assert.Equal(t, "Banner", got.ProductDetails[0].ProductName)
	assert.True(t, got.ProductDetails[1].TotalMoney.Equal(decimal.RequireFromString("45.5")))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Sticker", got.Items[1].ProductName)
}

func TestSubmitOrderWithEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	id, err := svc.SubmitOrder(context.Background(), Assemble(BillingFields{}, nil))
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.ProductDetails)
	assert.Empty(t, got.Items)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetOrder(context.Background(), 999)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.SubmitOrder(ctx, Assemble(BillingFields{StaffName: "Linh"}, nil))
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, id, lineItem("Poster", "12.25"))
	require.NoError(t, err)
	require.NotNil(t, item.OrderID)
	assert.Equal(t, id, *item.OrderID)

	got, err := svc.GetOrder(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Poster", got.Items[0].ProductName)

	_, err = svc.AddItem(ctx, id+100, lineItem("Poster", "1"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.AddItem(ctx, id, lineItem("", "1"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddItem(ctx, id, lineItem("Poster", "-1"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type failingTx struct{ err error }

func (f failingTx) WithTx(context.Context, func(tx *gorm.DB) error) error { return f.err }

func TestSubmitOrderFailureIsDependencyError(t *testing.T) {
	svc, err := NewService(NewRepository(nil), failingTx{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = svc.SubmitOrder(context.Background(), Assemble(BillingFields{}, nil))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, failingTx{})
	require.Error(t, err)
	_, err = NewService(NewRepository(nil), nil)
	require.Error(t, err)
}
