package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// sqliteMigrations is the ordered list of SQLite schema migrations.
// Each migration's version must be sequential starting from 1.
var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id                        TEXT PRIMARY KEY,
	user_id                   TEXT NOT NULL,
	name                      TEXT NOT NULL,
	email                     TEXT NOT NULL DEFAULT '',
	company                   TEXT NOT NULL DEFAULT '',
	notes                     TEXT NOT NULL DEFAULT '',
	tasks_completed           INTEGER NOT NULL DEFAULT 0 CHECK(tasks_completed >= 0),
	tasks_in_progress         INTEGER NOT NULL DEFAULT 0 CHECK(tasks_in_progress >= 0),
	tasks_pending             INTEGER NOT NULL DEFAULT 0 CHECK(tasks_pending >= 0),
	last_activity             DATETIME,
	objectives_count          INTEGER NOT NULL DEFAULT 0 CHECK(objectives_count >= 0),
	objectives_completed      INTEGER NOT NULL DEFAULT 0 CHECK(objectives_completed >= 0),
	objectives_pending        INTEGER NOT NULL DEFAULT 0 CHECK(objectives_pending >= 0),
	last_profitability_update DATETIME,
	created_at                DATETIME NOT NULL,
	updated_at                DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	client_id      TEXT REFERENCES clients(id),
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'to-do' CHECK(status IN ('to-do', 'in-progress', 'completed')),
	priority       INTEGER NOT NULL DEFAULT 4 CHECK(priority BETWEEN 1 AND 4),
	due_date       DATETIME,
	actual_time    REAL NOT NULL DEFAULT 0,
	impact_score   INTEGER NOT NULL DEFAULT 0 CHECK(impact_score BETWEEN 0 AND 100),
	is_high_impact INTEGER NOT NULL DEFAULT 0 CHECK(is_high_impact IN (0, 1)),
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status);
CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id);

CREATE TABLE IF NOT EXISTS timers (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	task_id     TEXT REFERENCES tasks(id) ON DELETE SET NULL,
	client_id   TEXT REFERENCES clients(id) ON DELETE SET NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  DATETIME NOT NULL,
	end_time    DATETIME,
	duration    REAL NOT NULL DEFAULT 0,
	billable    INTEGER NOT NULL DEFAULT 1 CHECK(billable IN (0, 1)),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

-- At most one running timer per user.
CREATE UNIQUE INDEX IF NOT EXISTS idx_timers_one_open
	ON timers(user_id) WHERE end_time IS NULL;
CREATE INDEX IF NOT EXISTS idx_timers_user_start ON timers(user_id, start_time);

CREATE TABLE IF NOT EXISTS profitability (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	client_id       TEXT NOT NULL REFERENCES clients(id),
	hourly_rate     REAL NOT NULL CHECK(hourly_rate > 0),
	target_hours    REAL NOT NULL DEFAULT 0,
	monthly_budget  REAL NOT NULL DEFAULT 0,
	actual_hours    REAL NOT NULL DEFAULT 0,
	revenue         REAL NOT NULL DEFAULT 0,
	profit          REAL NOT NULL DEFAULT 0,
	profitability   REAL NOT NULL DEFAULT 0,
	remaining_hours REAL NOT NULL DEFAULT 0,
	version         INTEGER NOT NULL DEFAULT 1,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	UNIQUE(user_id, client_id)
);

CREATE TABLE IF NOT EXISTS objectives (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	client_id  TEXT NOT NULL REFERENCES clients(id),
	title      TEXT NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date   DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_objectives_client ON objectives(client_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// postgresMigrations mirrors sqliteMigrations in PostgreSQL dialect.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id                        TEXT PRIMARY KEY,
	user_id                   TEXT NOT NULL,
	name                      TEXT NOT NULL,
	email                     TEXT NOT NULL DEFAULT '',
	company                   TEXT NOT NULL DEFAULT '',
	notes                     TEXT NOT NULL DEFAULT '',
	tasks_completed           INTEGER NOT NULL DEFAULT 0 CHECK(tasks_completed >= 0),
	tasks_in_progress         INTEGER NOT NULL DEFAULT 0 CHECK(tasks_in_progress >= 0),
	tasks_pending             INTEGER NOT NULL DEFAULT 0 CHECK(tasks_pending >= 0),
	last_activity             TIMESTAMPTZ,
	objectives_count          INTEGER NOT NULL DEFAULT 0 CHECK(objectives_count >= 0),
	objectives_completed      INTEGER NOT NULL DEFAULT 0 CHECK(objectives_completed >= 0),
	objectives_pending        INTEGER NOT NULL DEFAULT 0 CHECK(objectives_pending >= 0),
	last_profitability_update TIMESTAMPTZ,
	created_at                TIMESTAMPTZ NOT NULL,
	updated_at                TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	client_id      TEXT REFERENCES clients(id),
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'to-do' CHECK(status IN ('to-do', 'in-progress', 'completed')),
	priority       INTEGER NOT NULL DEFAULT 4 CHECK(priority BETWEEN 1 AND 4),
	due_date       TIMESTAMPTZ,
	actual_time    DOUBLE PRECISION NOT NULL DEFAULT 0,
	impact_score   INTEGER NOT NULL DEFAULT 0 CHECK(impact_score BETWEEN 0 AND 100),
	is_high_impact BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status);
CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id);

CREATE TABLE IF NOT EXISTS timers (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	task_id     TEXT REFERENCES tasks(id) ON DELETE SET NULL,
	client_id   TEXT REFERENCES clients(id) ON DELETE SET NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  TIMESTAMPTZ NOT NULL,
	end_time    TIMESTAMPTZ,
	duration    DOUBLE PRECISION NOT NULL DEFAULT 0,
	billable    BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_timers_one_open
	ON timers(user_id) WHERE end_time IS NULL;
CREATE INDEX IF NOT EXISTS idx_timers_user_start ON timers(user_id, start_time);

CREATE TABLE IF NOT EXISTS profitability (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	client_id       TEXT NOT NULL REFERENCES clients(id),
	hourly_rate     DOUBLE PRECISION NOT NULL CHECK(hourly_rate > 0),
	target_hours    DOUBLE PRECISION NOT NULL DEFAULT 0,
	monthly_budget  DOUBLE PRECISION NOT NULL DEFAULT 0,
	actual_hours    DOUBLE PRECISION NOT NULL DEFAULT 0,
	revenue         DOUBLE PRECISION NOT NULL DEFAULT 0,
	profit          DOUBLE PRECISION NOT NULL DEFAULT 0,
	profitability   DOUBLE PRECISION NOT NULL DEFAULT 0,
	remaining_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	version         BIGINT NOT NULL DEFAULT 1,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	UNIQUE(user_id, client_id)
);

CREATE TABLE IF NOT EXISTS objectives (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	client_id  TEXT NOT NULL REFERENCES clients(id),
	title      TEXT NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	due_date   TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_objectives_client ON objectives(client_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
