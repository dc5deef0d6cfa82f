package stats

import "time"

// recentJobsCap 最近任务记录的保留上限
const recentJobsCap = 100

// JobRecord 单次文档翻译任务的记录
type JobRecord struct {
	ID            string         `json:"id"`
	Lines         int            `json:"lines"`
	Chunks        int            `json:"chunks"`
	TierCounts    map[string]int `json:"tier_counts"`
	QuotaFailures int            `json:"quota_failures"`
	StartedAt     time.Time      `json:"started_at"`
	DurationMS    int64          `json:"duration_ms"`
}

// UsageDB 用量数据库文件结构
type UsageDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 累计值
	TotalDocuments     int64            `json:"total_documents"`
	TotalLines         int64            `json:"total_lines"`
	TotalChunks        int64            `json:"total_chunks"`
	TotalQuotaFailures int64            `json:"total_quota_failures"`
	TierTotals         map[string]int64 `json:"tier_totals"`

	// 最近任务环形记录（最新在前）
	RecentJobs []*JobRecord `json:"recent_jobs"`
}

func newUsageDB() *UsageDB {
	now := time.Now()
	return &UsageDB{
		Version:    "1.0",
		CreatedAt:  now,
		TierTotals: make(map[string]int64),
	}
}
