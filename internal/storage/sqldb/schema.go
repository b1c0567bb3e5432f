package sqldb

// schema is applied on every start; statements must stay idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS scouts (
		id               TEXT PRIMARY KEY,
		scout_name       TEXT NOT NULL,
		team_number      TEXT NOT NULL,
		match_number     TEXT NOT NULL,
		team_name        TEXT NOT NULL,
		driver_skill     INTEGER NOT NULL,
		autonomous_notes TEXT NOT NULL DEFAULT '',
		teleop_notes     TEXT NOT NULL DEFAULT '',
		general_notes    TEXT NOT NULL DEFAULT '',
		owner_uid        TEXT NOT NULL DEFAULT '',
		created_at       BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS scouts_scout_name_created_at ON scouts (scout_name, created_at)`,
	`CREATE INDEX IF NOT EXISTS scouts_created_at ON scouts (created_at)`,
	`CREATE TABLE IF NOT EXISTS users (
		uid        TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		name       TEXT NOT NULL,
		surname    TEXT NOT NULL,
		role       TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS credentials (
		uid           TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    BIGINT NOT NULL,
		updated_at    BIGINT NOT NULL
	)`,
}
