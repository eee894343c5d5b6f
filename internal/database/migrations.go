package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/snacks-api/internal/constants"
	"gorm.io/gorm"
)

// searchVector describes a tsvector column kept current by a row trigger.
type searchVector struct {
	table   string
	column  string
	source  string
	index   string
	trigger string
}

var searchVectors = []searchVector{
	{"articles", "ts_text", "text", "articles_ts_text_idx", "articles_ts_text_update"},
	{"articles", "ts_title", "title", "articles_ts_title_idx", "articles_ts_title_update"},
	{"comments", "ts_text", "text", "comments_ts_text_idx", "comments_ts_text_update"},
}

// AddSearchVectors adds the full-text columns, their GIN indexes and the
// tsvector_update_trigger that refreshes them on insert or update
func AddSearchVectors(db *gorm.DB) error {
	for _, v := range searchVectors {
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s tsvector", v.table, v.column)
		if err := db.Exec(alter).Error; err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", v.table, v.column, err)
		}

		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, v.table, v.index).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", v.index, err)
		}

		if count == 0 {
			sql := fmt.Sprintf("CREATE INDEX %s ON %s USING gin(%s)", v.index, v.table, v.column)
			if err := db.Exec(sql).Error; err != nil {
				return fmt.Errorf("failed to create index %s: %w", v.index, err)
			}
			slog.Info("Created search index", "index", v.index, "table", v.table)
		}

		err = db.Raw(`
			SELECT COUNT(*)
			FROM pg_trigger
			WHERE tgname = ?
		`, v.trigger).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check trigger %s: %w", v.trigger, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf(`CREATE TRIGGER %s BEFORE INSERT OR UPDATE
			ON %s FOR EACH ROW EXECUTE PROCEDURE
			tsvector_update_trigger(%s, 'pg_catalog.%s', %s)`,
			v.trigger, v.table, v.column, constants.SearchConfig, v.source)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create trigger %s: %w", v.trigger, err)
		}

		// backfill rows written before the trigger existed
		backfill := fmt.Sprintf("UPDATE %s SET %s = to_tsvector('pg_catalog.%s', coalesce(%s, ''))",
			v.table, v.column, constants.SearchConfig, v.source)
		if err := db.Exec(backfill).Error; err != nil {
			return fmt.Errorf("failed to backfill %s.%s: %w", v.table, v.column, err)
		}
		slog.Info("Created search trigger", "trigger", v.trigger, "table", v.table)
	}

	return nil
}

// MigrateDatabase runs the Postgres-only provisioning on top of AutoMigrate.
// Other dialects (the sqlite test database) only get the AutoMigrate schema.
func MigrateDatabase(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		slog.Debug("Skipping search vector migration", "dialect", db.Dialector.Name())
		return nil
	}

	if err := AddSearchVectors(db); err != nil {
		return fmt.Errorf("failed to add search vectors: %w", err)
	}

	return nil
}
