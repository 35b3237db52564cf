package models

import "time"

// ContinuityResult reports how recently and actively a session has been used.
type ContinuityResult struct {
	ContinuityScore float64    `json:"continuity_score"`
	IsContinuous    bool       `json:"is_continuous"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
	MessageCount    int        `json:"message_count"`
}

// PrioritizedContext is a context entry annotated with selection scores.
type PrioritizedContext struct {
	ID             string    `json:"id"`
	ContextType    string    `json:"context_type"`
	ContextKey     string    `json:"context_key"`
	ContextValue   string    `json:"context_value"`
	RelevanceScore float64   `json:"relevance_score"`
	RecencyScore   float64   `json:"recency_score"`
	PriorityScore  float64   `json:"priority_score"`
	IsUserSpecific bool      `json:"is_user_specific"`
	CreatedAt      time.Time `json:"created_at"`
}

// MergeResult is the outcome of merging selected context entries into one
// bounded string.
type MergeResult struct {
	MergedContent string   `json:"merged_content"`
	SourceCount   int      `json:"source_count"`
	AvgRelevance  float64  `json:"avg_relevance"`
	QualityScore  float64  `json:"quality_score"`
	TypesUsed     []string `json:"types_used"`
	Strategy      string   `json:"strategy"`
}

// RehydrationScore combines continuity, richness and user specificity into a
// single quality score plus a recommended context budget.
type RehydrationScore struct {
	ContinuityScore         float64 `json:"continuity_score"`
	ContextRichnessScore    float64 `json:"context_richness_score"`
	UserSpecificityScore    float64 `json:"user_specificity_score"`
	OverallScore            float64 `json:"overall_score"`
	RecommendedContextLimit int     `json:"recommended_context_limit"`
}

// Bundle is the rehydrated context package returned to the caller.
type Bundle struct {
	SessionID               string            `json:"session_id"`
	UserID                  *string           `json:"user_id,omitempty"`
	RehydratedContext       string            `json:"rehydrated_context"`
	ConversationHistory     string            `json:"conversation_history"`
	UserPreferences         map[string]string `json:"user_preferences"`
	ContinuityScore         float64           `json:"continuity_score"`
	ContextCount            int               `json:"context_count"`
	RehydrationQualityScore float64           `json:"rehydration_quality_score"`
	CacheHit                bool              `json:"cache_hit"`
}

// StoreAggregates holds store-level counts consumed by the statistics
// collector.
type StoreAggregates struct {
	TotalSessions  int     `json:"total_sessions"`
	ActiveSessions int     `json:"active_sessions"`
	ContextRows    int     `json:"context_rows"`
	AvgContinuity  float64 `json:"avg_continuity"`
	AvgQuality     float64 `json:"avg_quality"`
}

// SessionStats is the read-only aggregation served to dashboards.
type SessionStats struct {
	TotalSessions         int     `json:"total_sessions"`
	ActiveSessions        int     `json:"active_sessions"`
	AvgContinuity         float64 `json:"avg_continuity"`
	AvgContextCount       float64 `json:"avg_context_count"`
	AvgRehydrationQuality float64 `json:"avg_rehydration_quality"`
	CacheHitRatio         float64 `json:"cache_hit_ratio"`
	OperationCount        int64   `json:"operation_count"`
}
