package db

// Schema is the full DDL for the service, applied by cmd/migrate. Statements
// are idempotent so re-running a deploy is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS question_bank (
    id            BIGSERIAL PRIMARY KEY,
    industry      TEXT NOT NULL,
    role          TEXT NOT NULL,
    question_text TEXT NOT NULL,
    question_type TEXT NOT NULL CHECK (question_type IN ('behavior', 'technical', 'situational', 'motivation')),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_question_bank_pair ON question_bank (industry, role);

CREATE TABLE IF NOT EXISTS generation_tasks (
    task_id          TEXT PRIMARY KEY,
    industry         TEXT NOT NULL,
    role             TEXT NOT NULL,
    status           TEXT NOT NULL CHECK (status IN ('processing', 'completed', 'failed')),
    progress_current INT NOT NULL DEFAULT 0,
    progress_target  INT NOT NULL,
    error_message    TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at     TIMESTAMPTZ
);

-- At most one processing task per pair; concurrent starts race on this index.
CREATE UNIQUE INDEX IF NOT EXISTS idx_generation_tasks_active_pair
    ON generation_tasks (industry, role) WHERE status = 'processing';

CREATE TABLE IF NOT EXISTS interview_sessions (
    session_id        TEXT PRIMARY KEY,
    user_id           TEXT,
    industry          TEXT NOT NULL,
    role              TEXT NOT NULL,
    question_set      JSONB NOT NULL,
    current_index     INT NOT NULL DEFAULT 0,
    status            TEXT NOT NULL CHECK (status IN ('active', 'completed')),
    billing_triggered BOOLEAN NOT NULL DEFAULT FALSE,
    start_time        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_time          TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_active
    ON interview_sessions (start_time) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS system_config (
    config_key   TEXT PRIMARY KEY,
    config_value TEXT NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
