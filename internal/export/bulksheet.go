// Package export writes recommended changes back into a copy of the source
// bulksheet so the file can be re-uploaded to the ad console. Only placement
// bid-modifier updates are applied; keyword bid changes ship in the result
// object for manual review.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/report"
)

// operationColumn is the bulksheet column the ad console reads to decide
// what to do with a row.
const operationColumn = "Operation"

// WriteBulksheet copies the workbook at meta.SourcePath to dstPath with the
// recommended placement percentages written into the campaign sheet. Rows
// are matched on campaign ID plus the original placement label; touched rows
// get their Operation column set to "update". All other sheets and rows are
// preserved as-is.
func WriteBulksheet(dstPath string, adjustments []model.PlacementAdjustment, meta report.Meta) error {
	if meta.CampaignSheet == "" {
		return eris.New("export: no campaign sheet recorded for this report")
	}

	f, err := xlsx.OpenFile(meta.SourcePath)
	if err != nil {
		return eris.Wrap(err, "export: open source workbook")
	}

	sheet, ok := f.Sheet[meta.CampaignSheet]
	if !ok {
		return eris.Errorf("export: campaign sheet %q not found in source workbook", meta.CampaignSheet)
	}
	if len(sheet.Rows) == 0 {
		return eris.Errorf("export: campaign sheet %q is empty", meta.CampaignSheet)
	}

	cols, err := locateColumns(sheet, meta)
	if err != nil {
		return err
	}

	// recommended percentage by campaign ID + original placement label.
	recommended := make(map[string]float64)
	for _, adj := range adjustments {
		if adj.IsTotal || !adj.HasRecommendation {
			continue
		}
		recommended[matchKey(adj.CampaignID, adj.PlacementLabel)] = adj.RecommendedAdjustPct
	}

	updated := 0
	for _, row := range sheet.Rows[1:] {
		campaignID := strings.TrimSpace(cellAt(row, cols.campaignID))
		label := strings.TrimSpace(cellAt(row, cols.placement))
		pct, ok := recommended[matchKey(campaignID, label)]
		if !ok {
			continue
		}
		setCell(row, cols.percentage).SetFloat(pct)
		setCell(row, cols.operation).SetString("update")
		updated++
	}

	if err := f.Save(dstPath); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}

	zap.L().Info("export: bulksheet written",
		zap.String("path", dstPath),
		zap.Int("rows_updated", updated),
	)
	return nil
}

type columnIndexes struct {
	campaignID int
	placement  int
	percentage int
	operation  int
}

// locateColumns resolves the header positions needed for matching and
// updating. The Operation column is appended to the header if the source
// workbook lacks one.
func locateColumns(sheet *xlsx.Sheet, meta report.Meta) (columnIndexes, error) {
	header := sheet.Rows[0]
	cols := columnIndexes{campaignID: -1, placement: -1, percentage: -1, operation: -1}

	for i, cell := range header.Cells {
		h := strings.TrimSpace(cell.String())
		norm := strings.ToLower(h)
		switch {
		case meta.PercentageColumn != "" && h == meta.PercentageColumn:
			cols.percentage = i
		case norm == "prozentsatz" || norm == "percentage":
			if cols.percentage < 0 {
				cols.percentage = i
			}
		case norm == "kampagnen-id" || norm == "campaign id":
			cols.campaignID = i
		case norm == "platzierung" || norm == "placement":
			cols.placement = i
		case h == operationColumn:
			cols.operation = i
		}
	}

	var missing []string
	if cols.campaignID < 0 {
		missing = append(missing, "campaign id")
	}
	if cols.placement < 0 {
		missing = append(missing, "placement")
	}
	if cols.percentage < 0 {
		missing = append(missing, "percentage")
	}
	if len(missing) > 0 {
		return cols, eris.Errorf("export: campaign sheet is missing columns: %s", strings.Join(missing, ", "))
	}

	if cols.operation < 0 {
		cols.operation = len(header.Cells)
		header.AddCell().SetString(operationColumn)
	}
	return cols, nil
}

func matchKey(campaignID, placementLabel string) string {
	return campaignID + "\x00" + strings.ToLower(placementLabel)
}

func cellAt(row *xlsx.Row, i int) string {
	if i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i].String()
}

// setCell returns the cell at index i, padding the row if needed.
func setCell(row *xlsx.Row, i int) *xlsx.Cell {
	for len(row.Cells) <= i {
		row.AddCell()
	}
	return row.Cells[i]
}
