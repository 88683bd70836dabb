package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Gestures table - per-kind overrides of the recognizer defaults
		`CREATE TABLE IF NOT EXISTS gestures (
			kind TEXT PRIMARY KEY,
			threshold REAL NOT NULL CHECK(threshold > 0 AND threshold < 1),
			direction TEXT NOT NULL DEFAULT 'rising' CHECK(direction IN ('rising', 'falling')),
			min_interval_ms INTEGER NOT NULL DEFAULT 500 CHECK(min_interval_ms >= 0),
			min_calm INTEGER NOT NULL DEFAULT 1 CHECK(min_calm >= 1),
			min_active INTEGER NOT NULL DEFAULT 1 CHECK(min_active >= 1),
			enabled INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Bindings table - routes a gesture kind to a hook
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			hook_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(kind, hook_name)
		)`,

		// Gesture events table - timeline of accepted gestures
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			chirality TEXT NOT NULL CHECK(chirality IN ('left', 'right')),
			pos_x REAL NOT NULL,
			pos_y REAL NOT NULL,
			pos_z REAL NOT NULL,
			rot_real REAL NOT NULL,
			rot_i REAL NOT NULL,
			rot_j REAL NOT NULL,
			rot_k REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL -- unix milliseconds
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_bindings_kind ON bindings(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_kind ON gesture_events(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_created_at ON gesture_events(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
