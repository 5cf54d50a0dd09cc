package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Project indexes for feed sorting and owner lookups
		{"projects", "idx_projects_owner_id", "owner_id"},
		{"projects", "idx_projects_last_activity_at", "last_activity_at"},
		{"projects", "idx_projects_downloads", "downloads"},
		{"projects", "idx_projects_type", "type"},

		// Membership lookups
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},

		// Activity feed reads are newest-first per project
		{"activities", "idx_activities_project_created", "project_id, created_at"},

		// Friendship pair lookups run in both directions
		{"friendships", "idx_friendships_addressee_id", "addressee_id"},
	}

	for _, idx := range indexes {
		var count int64
		var err error
		switch db.Dialector.Name() {
		case "postgres":
			err = db.Raw(`
				SELECT COUNT(*)
				FROM pg_indexes
				WHERE tablename = ? AND indexname = ?
			`, idx.table, idx.name).Count(&count).Error
		case "mysql":
			err = db.Raw(`
				SELECT COUNT(*)
				FROM information_schema.statistics
				WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
			`, idx.table, idx.name).Count(&count).Error
		default:
			// SQLite in tests: CREATE INDEX IF NOT EXISTS below is enough.
		}

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if db.Dialector.Name() == "sqlite" {
			sql = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		}
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
