package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

func sampleReport(id string) *translation.JobReport {
	return &translation.JobReport{
		ID:            id,
		Lines:         10,
		Chunks:        4,
		TierCounts:    map[string]int{"gemini": 3, "local_dictionary": 1},
		QuotaFailures: 2,
		StartedAt:     time.Now(),
		Duration:      1500 * time.Millisecond,
	}
}

func TestDatabaseRecordJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	db, err := NewDatabase(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, db.RecordJob(sampleReport("job-1")))
	require.NoError(t, db.RecordJob(sampleReport("job-2")))

	snap := db.Snapshot()
	assert.Equal(t, int64(2), snap.TotalDocuments)
	assert.Equal(t, int64(20), snap.TotalLines)
	assert.Equal(t, int64(8), snap.TotalChunks)
	assert.Equal(t, int64(4), snap.TotalQuotaFailures)
	assert.Equal(t, int64(6), snap.TierTotals["gemini"])

	// 最新任务在前
	require.Len(t, snap.RecentJobs, 2)
	assert.Equal(t, "job-2", snap.RecentJobs[0].ID)
}

func TestDatabasePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")

	db, err := NewDatabase(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.RecordJob(sampleReport("job-1")))

	// 重新打开读取落盘数据
	reopened, err := NewDatabase(path, zap.NewNop())
	require.NoError(t, err)

	snap := reopened.Snapshot()
	assert.Equal(t, int64(1), snap.TotalDocuments)
	require.Len(t, snap.RecentJobs, 1)
	assert.Equal(t, "job-1", snap.RecentJobs[0].ID)
}

func TestDatabaseCorruptFileRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	// 损坏文件不阻止启动
	db, err := NewDatabase(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(0), db.Snapshot().TotalDocuments)

	// 原文件被改名备份
	_, statErr := os.Stat(path + ".corrupt")
	assert.NoError(t, statErr)
}

func TestDatabaseRecentJobsCapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	db, err := NewDatabase(path, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < recentJobsCap+10; i++ {
		require.NoError(t, db.RecordJob(sampleReport("job")))
	}
	assert.Len(t, db.Snapshot().RecentJobs, recentJobsCap)
}
