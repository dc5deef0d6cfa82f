package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

// Database JSON文件用量数据库。写入走临时文件+重命名，掉电不留半个文件。
type Database struct {
	mu       sync.RWMutex
	filePath string
	data     *UsageDB
	logger   *zap.Logger
}

// NewDatabase 打开或创建用量数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db := &Database{
		filePath: filePath,
		data:     newUsageDB(),
		logger:   logger,
	}

	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

// RecordJob 记录一次文档翻译任务并落盘
func (db *Database) RecordJob(report *translation.JobReport) error {
	db.mu.Lock()

	db.data.TotalDocuments++
	db.data.TotalLines += int64(report.Lines)
	db.data.TotalChunks += int64(report.Chunks)
	db.data.TotalQuotaFailures += int64(report.QuotaFailures)
	for tier, n := range report.TierCounts {
		db.data.TierTotals[tier] += int64(n)
	}

	record := &JobRecord{
		ID:            report.ID,
		Lines:         report.Lines,
		Chunks:        report.Chunks,
		TierCounts:    report.TierCounts,
		QuotaFailures: report.QuotaFailures,
		StartedAt:     report.StartedAt,
		DurationMS:    report.Duration.Milliseconds(),
	}
	db.data.RecentJobs = append([]*JobRecord{record}, db.data.RecentJobs...)
	if len(db.data.RecentJobs) > recentJobsCap {
		db.data.RecentJobs = db.data.RecentJobs[:recentJobsCap]
	}
	db.data.LastUpdated = time.Now()

	db.mu.Unlock()
	return db.Save()
}

// Snapshot 返回当前数据的深拷贝
func (db *Database) Snapshot() *UsageDB {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := *db.data
	out.TierTotals = make(map[string]int64, len(db.data.TierTotals))
	for k, v := range db.data.TierTotals {
		out.TierTotals[k] = v
	}
	out.RecentJobs = append([]*JobRecord(nil), db.data.RecentJobs...)
	return &out
}

// Save 原子写入数据库文件
func (db *Database) Save() error {
	db.mu.RLock()
	data, err := json.MarshalIndent(db.data, "", "  ")
	db.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(db.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create stats dir: %w", err)
	}

	tmp := db.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return os.Rename(tmp, db.filePath)
}

// load 加载已有数据库文件，不存在时保持空数据库
func (db *Database) load() error {
	data, err := os.ReadFile(db.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var parsed UsageDB
	if err := json.Unmarshal(data, &parsed); err != nil {
		// 损坏的统计文件不应阻止程序启动，备份后重建
		backup := db.filePath + ".corrupt"
		if renameErr := os.Rename(db.filePath, backup); renameErr == nil {
			db.logger.Warn("统计文件损坏，已备份并重建",
				zap.String("backup", backup),
				zap.Error(err))
		}
		return nil
	}
	if parsed.TierTotals == nil {
		parsed.TierTotals = make(map[string]int64)
	}
	db.data = &parsed
	return nil
}
