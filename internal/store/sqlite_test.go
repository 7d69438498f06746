package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/config"
	"github.com/sells-group/ppc-cli/internal/model"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	run := &model.Run{
		Client:     "acme",
		ReportFile: "report.xlsx",
		Status:     model.RunStatusComplete,
		Result: &model.OptimizationResult{
			Summary: model.Summary{TotalKeywords: 4, KeywordsToPause: 1},
			Keywords: []model.KeywordDecision{
				{Keyword: "dud", Action: model.ActionPause, Reason: "no sales"},
			},
		},
	}
	require.NoError(t, st.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acme", got.Client)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 4, got.Result.Summary.TotalKeywords)
	require.Len(t, got.Result.Keywords, 1)
	assert.Equal(t, model.ActionPause, got.Result.Keywords[0].Action)
}

func TestSQLite_GetRunNotFound(t *testing.T) {
	st := newSQLiteStore(t)

	got, err := st.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ListRunsNewestFirstWithFilters(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*model.Run{
		{ID: "old", Client: "acme", Status: model.RunStatusComplete, CreatedAt: base},
		{ID: "new", Client: "acme", Status: model.RunStatusComplete, CreatedAt: base.Add(time.Hour)},
		{ID: "other", Client: "globex", Status: model.RunStatusFailed, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range runs {
		require.NoError(t, st.SaveRun(ctx, r))
	}

	got, err := st.ListRuns(ctx, RunFilter{Client: "acme"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)

	got, err = st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].ID)

	got, err = st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "runs.db"),
	})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, st.Close())
}
