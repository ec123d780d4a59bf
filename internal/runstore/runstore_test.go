package runstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreManager(t *testing.T) {
	mgr := &HistoryStoreManager{}
	assert.Nil(t, mgr.GetHistoryStore())

	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	mgr.store = store
	assert.Same(t, store, mgr.GetHistoryStore())
}

func TestClearHistory(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewRunStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unknown backend", func(t *testing.T) {
		err := ClearHistory("redis", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported history backend")
	})
}

func TestExportHistory(t *testing.T) {
	store := newSQLiteStore(t)

	t.Run("empty store", func(t *testing.T) {
		err := ExportHistory(store, filepath.Join(t.TempDir(), "out"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no run history found")
	})

	t.Run("missing output file", func(t *testing.T) {
		assert.Error(t, ExportHistory(store, ""))
	})

	t.Run("writes runs and points", func(t *testing.T) {
		runID, err := store.BeginRun(schema.SixWeekVariant, time.Now(), nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordPoints(runID, sampleSeries()))
		require.NoError(t, store.EndRun(runID, time.Now(), sampleRunSummary()))

		base := filepath.Join(t.TempDir(), "history")
		require.NoError(t, ExportHistory(store, base))

		for _, suffix := range []string{".runs.parquet", ".run_points.parquet"} {
			info, err := os.Stat(base + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	})
}

func TestExportHistoryMockStore(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", Connected: true, TotalRuns: 1}, nil)
	store.On("GetAllRuns").Return([]schema.RunRecord{{RunID: 1, Variant: "six-week", StartTime: time.Now()}}, nil)
	store.On("GetAllRunPoints").Return([]schema.RunPointRecord{}, nil)

	require.NoError(t, ExportHistory(store, filepath.Join(t.TempDir(), "mock")))
	store.AssertExpectations(t)
}

func TestPrintHistoryStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"})
		assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("connected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintHistoryStatus(&buf, schema.HistoryStatus{
			Backend:       "sqlite",
			Connected:     true,
			TotalRuns:     2,
			LastRunID:     7,
			LastRunTime:   time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
			OldestRunTime: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC),
			TotalPoints:   12,
			TableSizes:    map[string]int64{runsTable: 2, runPointsTable: 12},
		})
		out := buf.String()
		assert.Contains(t, out, "Total Runs: 2\n")
		assert.Contains(t, out, "Last Run ID: 7\n")
		assert.Contains(t, out, "Last Run: 2024-03-02 10:00:00\n")
		assert.Contains(t, out, "Oldest Run: 2024-03-01 09:30:00\n")
		assert.Contains(t, out, "Total Points: 12\n")
		assert.Contains(t, out, "  trendbox_run_points: 12 rows\n  trendbox_runs: 2 rows\n")
	})
}
