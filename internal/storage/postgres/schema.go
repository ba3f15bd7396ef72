package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pool_hours (
		id           BIGSERIAL PRIMARY KEY,
		payload      TEXT NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pool_hours_last_updated ON pool_hours (last_updated DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS restaurant_hours (
		id           BIGSERIAL PRIMARY KEY,
		payload      TEXT NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurant_hours_last_updated ON restaurant_hours (last_updated DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS restaurant_menus (
		id           BIGSERIAL PRIMARY KEY,
		menu_date    VARCHAR(10) NOT NULL UNIQUE,
		payload      TEXT NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
