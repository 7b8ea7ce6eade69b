package postgres

import "context"

// Tables lists every table the schema creates, in creation order.
var Tables = []string{"cards", "codes", "card_socials", "assets", "audit_events"}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cards (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(20)   NOT NULL,
		title       VARCHAR(75)   NOT NULL DEFAULT '',
		description VARCHAR(255)  NOT NULL DEFAULT '',
		phone       VARCHAR(11)   NOT NULL DEFAULT '',
		email       VARCHAR(255)  NOT NULL DEFAULT '',
		website     VARCHAR(2048) NOT NULL DEFAULT '',
		city        VARCHAR(20)   NOT NULL DEFAULT '',
		is_active   BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS codes (
		id             BIGSERIAL PRIMARY KEY,
		card_id        BIGINT      NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		code_hash      CHAR(64)    NOT NULL UNIQUE,
		is_active      BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deactivated_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS codes_one_active_per_card ON codes (card_id) WHERE is_active`,

	`CREATE TABLE IF NOT EXISTS card_socials (
		id            BIGSERIAL PRIMARY KEY,
		card_id       BIGINT        NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		type          VARCHAR(16)   NOT NULL CHECK (type IN ('instagram', 'telegram', 'tiktok', 'youtube', 'custom')),
		url           VARCHAR(2048) NOT NULL,
		label         VARCHAR(100)  NOT NULL,
		order_id      INTEGER       NOT NULL,
		is_visible    BOOLEAN       NOT NULL DEFAULT TRUE,
		icon_asset_id BIGINT,
		created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS card_socials_card_order ON card_socials (card_id, order_id)`,

	`CREATE TABLE IF NOT EXISTS assets (
		id             BIGSERIAL PRIMARY KEY,
		card_id        BIGINT       NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		social_link_id BIGINT       REFERENCES card_socials(id) ON DELETE CASCADE,
		kind           VARCHAR(16)  NOT NULL CHECK (kind IN ('avatar', 'custom_icon')),
		storage_key    VARCHAR(512) NOT NULL,
		content_type   VARCHAR(100) NOT NULL,
		size           BIGINT       NOT NULL CHECK (size >= 0),
		created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		CHECK ((kind = 'avatar') = (social_link_id IS NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS assets_one_avatar_per_card ON assets (card_id) WHERE kind = 'avatar'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS assets_one_icon_per_link ON assets (social_link_id) WHERE social_link_id IS NOT NULL`,

	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'card_socials_icon_asset_fk') THEN
			ALTER TABLE card_socials
				ADD CONSTRAINT card_socials_icon_asset_fk
				FOREIGN KEY (icon_asset_id) REFERENCES assets(id) ON DELETE SET NULL;
		END IF;
	END $$`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		id         UUID PRIMARY KEY,
		event_type VARCHAR(64) NOT NULL,
		card_id    BIGINT,
		request_id VARCHAR(64),
		metadata   JSONB       NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_card ON audit_events (card_id, created_at)`,
}

// ApplySchema creates all tables and indexes in one transaction. Every
// statement is idempotent, so it is safe to run on each deploy.
func ApplySchema(ctx context.Context, db *DB) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return errFailedApplySchema(i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}
	return nil
}

// TableExists reports whether a table is present in the public schema.
func TableExists(ctx context.Context, db *DB, table string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, table).Scan(&exists)
	return exists, err
}
