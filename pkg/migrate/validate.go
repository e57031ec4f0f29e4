package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

var requiredMarkers = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks the migrations in dir. See ValidateFS.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks every .sql file at the root of fsys: the file name must
// be <version>_<name>.sql, versions and names must be unique, and goose
// markers must be present and balanced. All problems are reported together.
func ValidateFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var errs error
	versions := map[string]string{}
	names := map[string]string{}
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || path.Ext(file) != ".sql" {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(file)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", file))
			continue
		}
		if prev, ok := versions[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, file))
		}
		versions[m[1]] = file
		if prev, ok := names[m[2]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration name %q in %q and %q", m[2], prev, file))
		}
		names[m[2]] = file

		b, err := fs.ReadFile(fsys, file)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %q: %w", file, err))
			continue
		}
		errs = multierr.Append(errs, checkMarkers(file, string(b)))
	}
	return errs
}

func checkMarkers(file, txt string) error {
	var errs error
	for _, marker := range requiredMarkers {
		if !strings.Contains(txt, marker) {
			errs = multierr.Append(errs, fmt.Errorf("migration %q missing %q", file, marker))
		}
	}
	begins := strings.Count(txt, "-- +goose StatementBegin")
	ends := strings.Count(txt, "-- +goose StatementEnd")
	if begins != ends {
		errs = multierr.Append(errs, fmt.Errorf("migration %q has %d StatementBegin but %d StatementEnd", file, begins, ends))
	}
	return errs
}
