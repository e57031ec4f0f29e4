package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

	nowFunc = time.Now
)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// migrationSlug lower-cases name and collapses everything that is not a
// letter or digit into single underscores.
func migrationSlug(name string) string {
	slug := slugInvalidRe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(slug, "_")
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path. A slug already
// used by another migration in dir is rejected.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	existing, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil {
		return "", fmt.Errorf("scan %q: %w", dir, err)
	}
	for _, p := range existing {
		if m := sqlFileRe.FindStringSubmatch(filepath.Base(p)); m != nil && m[2] == slug {
			return "", fmt.Errorf("migration %q already exists: %s", slug, p)
		}
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", nowFunc().UTC().Format("20060102150405"), slug))
	if err := os.WriteFile(fullpath, []byte(fmt.Sprintf(migrationTemplate, slug)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}
