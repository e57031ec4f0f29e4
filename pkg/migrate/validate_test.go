package migrate

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const validBody = "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n-- +goose Down\n"

func TestValidateFSReportsEveryProblem(t *testing.T) {
	fsys := fstest.MapFS{
		"20240601090000_create_pricefull_table.sql": {Data: []byte(validBody)},
		"20240601090000_create_users_table.sql":     {Data: []byte(validBody)},
		"20240601090100_create_pricefull_table.sql": {Data: []byte(validBody)},
		"20240601090200_missing_down.sql":           {Data: []byte("-- +goose Up\n-- +goose StatementBegin\n")},
		"create_orders.sql":                         {Data: []byte(validBody)},
		"README.md":                                 {Data: []byte("ignored")},
	}

	errs := multierr.Errors(ValidateFS(fsys))
	require.Len(t, errs, 5)
	joined := multierr.Combine(errs...).Error()
	assert.Contains(t, joined, "duplicate migration version 20240601090000")
	assert.Contains(t, joined, `duplicate migration name "create_pricefull_table"`)
	assert.Contains(t, joined, `missing "-- +goose Down"`)
	assert.Contains(t, joined, "1 StatementBegin but 0 StatementEnd")
	assert.Contains(t, joined, `invalid migration filename "create_orders.sql"`)
}

func TestCreateSQLMigrationRejectsReusedName(t *testing.T) {
	dir := t.TempDir()
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	path, err := CreateSQLMigration(dir, "  Order Notes  ")
	require.NoError(t, err)
	assert.Contains(t, path, "20240601090000_order_notes.sql")

	nowFunc = func() time.Time { return time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC) }
	_, err = CreateSQLMigration(dir, "order-notes")
	require.Error(t, err)

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
