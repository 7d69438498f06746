package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/report"
)

const campaignSheet = "Sponsored Products Kampagnen"

func writeSourceWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(campaignSheet)
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func openSheet(t *testing.T, path string) *xlsx.Sheet {
	t.Helper()
	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[campaignSheet]
	require.True(t, ok)
	return sheet
}

func TestWriteBulksheet_UpdatesMatchedRows(t *testing.T) {
	src := writeSourceWorkbook(t, [][]string{
		{"Kampagnen-ID", "Entität", "Platzierung", "Prozentsatz"},
		{"c1", "Gebotsanpassung", "Platzierung Produktseite", "0"},
		{"c1", "Gebotsanpassung", "Top-Platzierung", "50"},
		{"c2", "Keyword", "", ""},
	})
	meta := report.Meta{
		SourcePath:       src,
		CampaignSheet:    campaignSheet,
		PercentageColumn: "Prozentsatz",
	}

	adjustments := []model.PlacementAdjustment{
		{
			CampaignID:           "c1",
			PlacementLabel:       "Platzierung Produktseite",
			RecommendedAdjustPct: 100.0,
			HasRecommendation:    true,
		},
		{
			// No recommendation: must not be written.
			CampaignID:           "c1",
			PlacementLabel:       "Top-Platzierung",
			RecommendedAdjustPct: 50.0,
		},
		{
			// Total rows are display-only.
			CampaignID:           "c1",
			Placement:            "total",
			RecommendedAdjustPct: 999.0,
			HasRecommendation:    true,
			IsTotal:              true,
		},
	}

	dst := filepath.Join(t.TempDir(), "optimized.xlsx")
	require.NoError(t, WriteBulksheet(dst, adjustments, meta))

	sheet := openSheet(t, dst)
	require.Len(t, sheet.Rows, 4)

	// Header gained the Operation column.
	header := sheet.Rows[0]
	require.Len(t, header.Cells, 5)
	assert.Equal(t, "Operation", header.Cells[4].String())

	// Matched row: percentage rewritten, operation set.
	matched := sheet.Rows[1]
	pct, err := matched.Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, pct, 1e-9)
	require.Len(t, matched.Cells, 5)
	assert.Equal(t, "update", matched.Cells[4].String())

	// Unmatched rows keep their original percentage and get no operation.
	untouched := sheet.Rows[2]
	assert.Equal(t, "50", untouched.Cells[3].String())
	assert.LessOrEqual(t, len(untouched.Cells), 4)
}

func TestWriteBulksheet_NoCampaignSheet(t *testing.T) {
	err := WriteBulksheet("out.xlsx", nil, report.Meta{SourcePath: "whatever.xlsx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no campaign sheet")
}

func TestWriteBulksheet_MissingColumns(t *testing.T) {
	src := writeSourceWorkbook(t, [][]string{
		{"Kampagnen-ID", "Entität"},
		{"c1", "Gebotsanpassung"},
	})
	meta := report.Meta{SourcePath: src, CampaignSheet: campaignSheet}

	dst := filepath.Join(t.TempDir(), "optimized.xlsx")
	err := WriteBulksheet(dst, nil, meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "placement")
}

func TestWriteBulksheet_KeepsExistingOperationColumn(t *testing.T) {
	src := writeSourceWorkbook(t, [][]string{
		{"Campaign ID", "Placement", "Percentage", "Operation"},
		{"c1", "Placement Product Page", "0", ""},
	})
	meta := report.Meta{SourcePath: src, CampaignSheet: campaignSheet}

	adjustments := []model.PlacementAdjustment{
		{
			CampaignID:           "c1",
			PlacementLabel:       "Placement Product Page",
			RecommendedAdjustPct: 25.0,
			HasRecommendation:    true,
		},
	}

	dst := filepath.Join(t.TempDir(), "optimized.xlsx")
	require.NoError(t, WriteBulksheet(dst, adjustments, meta))

	sheet := openSheet(t, dst)
	header := sheet.Rows[0]
	// No duplicate Operation column appended.
	require.Len(t, header.Cells, 4)
	assert.Equal(t, "update", sheet.Rows[1].Cells[3].String())
}
