package history

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

// Schema files are named NNN_description.sql. The numeric prefix is compared
// against SQLite's user_version, so applied files must never be renumbered.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

type schemaStep struct {
	version int
	name    string
}

func schemaSteps() ([]schemaStep, error) {
	names, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list schema files: %w", err)
	}
	steps := make([]schemaStep, 0, len(names))
	for _, name := range names {
		base := strings.TrimPrefix(name, "migrations/")
		prefix, _, _ := strings.Cut(base, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("schema file %s lacks a numeric prefix", base)
		}
		steps = append(steps, schemaStep{version: version, name: name})
	}
	slices.SortFunc(steps, func(a, b schemaStep) int { return a.version - b.version })
	for i := 1; i < len(steps); i++ {
		if steps[i].version == steps[i-1].version {
			return nil, fmt.Errorf("schema version %d is defined twice", steps[i].version)
		}
	}
	return steps, nil
}

// upgradeSchema runs every schema file newer than the database's user_version
// in a single transaction and bumps user_version to the last one applied.
func (s *Store) upgradeSchema(ctx context.Context) error {
	steps, err := schemaSteps()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema upgrade: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	applied := current
	for _, step := range steps {
		if step.version <= current {
			continue
		}
		ddl, err := schemaFS.ReadFile(step.name)
		if err != nil {
			return fmt.Errorf("read %s: %w", step.name, err)
		}
		if _, err := tx.ExecContext(ctx, string(ddl)); err != nil {
			return fmt.Errorf("apply schema version %d: %w", step.version, err)
		}
		applied = step.version
	}
	if applied == current {
		return nil
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", applied)); err != nil {
		return fmt.Errorf("record schema version %d: %w", applied, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema upgrade: %w", err)
	}
	return nil
}
