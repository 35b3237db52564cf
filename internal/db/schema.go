package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- SESSION TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS user_id ON session TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS status ON session TYPE string DEFAULT "active";
    DEFINE FIELD IF NOT EXISTS created_at ON session TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS last_activity ON session TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS relevance_score ON session TYPE float DEFAULT 1.0;
    DEFINE FIELD IF NOT EXISTS context_summary ON session TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS message_count ON session TYPE int DEFAULT 0;

    DEFINE INDEX IF NOT EXISTS session_sid ON session FIELDS session_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS session_user ON session FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS session_activity ON session FIELDS last_activity;

    -- ==========================================================================
    -- MESSAGE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS role ON message TYPE string ASSERT $value IN ["human", "ai", "system"];
    DEFINE FIELD IF NOT EXISTS content ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS timestamp ON message TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS message_index ON message TYPE int;
    DEFINE FIELD IF NOT EXISTS relevance_score ON message TYPE float DEFAULT 1.0;
    -- Embedding is produced externally; optional because not every message has one
    DEFINE FIELD IF NOT EXISTS embedding ON message TYPE option<array<float>>;
    -- Threading by identifier, never by record link
    DEFINE FIELD IF NOT EXISTS parent_message_id ON message TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS metadata ON message TYPE option<object> FLEXIBLE;

    -- Storage layer is the sole arbiter of index uniqueness per session
    DEFINE INDEX IF NOT EXISTS message_session_index ON message FIELDS session_id, message_index UNIQUE;
    DEFINE INDEX IF NOT EXISTS message_session ON message FIELDS session_id;

    -- ==========================================================================
    -- CONTEXT ENTRY TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS context_entry SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON context_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS context_type ON context_entry TYPE string ASSERT $value IN ["conversation", "preference", "project", "user_info"];
    DEFINE FIELD IF NOT EXISTS context_key ON context_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS context_value ON context_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS relevance_score ON context_entry TYPE float DEFAULT 1.0;
    DEFINE FIELD IF NOT EXISTS user_id ON context_entry TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS expires_at ON context_entry TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS created_at ON context_entry TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS context_unique ON context_entry FIELDS session_id, context_type, context_key UNIQUE;
    DEFINE INDEX IF NOT EXISTS context_session ON context_entry FIELDS session_id;
    DEFINE INDEX IF NOT EXISTS context_relevance ON context_entry FIELDS relevance_score;

    -- ==========================================================================
    -- REHYDRATION CACHE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS rehydration_cache SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS cache_key ON rehydration_cache TYPE string;
    DEFINE FIELD IF NOT EXISTS session_id ON rehydration_cache TYPE string;
    DEFINE FIELD IF NOT EXISTS payload ON rehydration_cache TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS continuity_score ON rehydration_cache TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS quality_score ON rehydration_cache TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS created_at ON rehydration_cache TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS expires_at ON rehydration_cache TYPE datetime;
    DEFINE FIELD IF NOT EXISTS hit_count ON rehydration_cache TYPE int DEFAULT 0;

    DEFINE INDEX IF NOT EXISTS cache_key_idx ON rehydration_cache FIELDS cache_key UNIQUE;
    DEFINE INDEX IF NOT EXISTS cache_session ON rehydration_cache FIELDS session_id;
    DEFINE INDEX IF NOT EXISTS cache_expiry ON rehydration_cache FIELDS expires_at;
`
