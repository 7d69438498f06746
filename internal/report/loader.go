// Package report loads Amazon advertising bulk reports (XLSX, CSV) and
// normalizes them into the canonical snapshot the optimization engine
// consumes. Sheet and column names vary by export locale; this package owns
// all of that detection so the engine never sees a raw spreadsheet.
package report

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Meta records the original sheet and column names so the exporter can
// write recommendations back into a copy of the source workbook.
type Meta struct {
	SourcePath       string   `json:"source_path"`
	SheetNames       []string `json:"sheet_names"`
	SearchTermSheet  string   `json:"search_term_sheet"`
	CampaignSheet    string   `json:"campaign_sheet"`
	KeywordColumn    string   `json:"keyword_column,omitempty"`
	BidColumn        string   `json:"bid_column,omitempty"`
	PercentageColumn string   `json:"percentage_column,omitempty"`
}

// Report is a loaded, column-normalized bulk report.
type Report struct {
	Snapshot model.Snapshot
	Meta     Meta
}

// Load reads a bulk report workbook: keyword rows from the search-term
// sheet, placement (bid adjustment) rows from the campaign sheet. A missing
// search-term sheet or required columns abort the load; a missing campaign
// sheet only disables placement analysis.
func Load(path string) (*Report, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: open workbook")
	}

	var names []string
	for _, sheet := range f.Sheets {
		names = append(names, sheet.Name)
	}

	meta := Meta{
		SourcePath:      path,
		SheetNames:      names,
		SearchTermSheet: findSearchTermSheet(names),
		CampaignSheet:   findCampaignSheet(names),
	}
	if meta.SearchTermSheet == "" {
		return nil, eris.Errorf("report: no search-term sheet found (sheets: %s)", strings.Join(names, ", "))
	}

	keywords, kwMeta, err := parseSearchTermSheet(f.Sheet[meta.SearchTermSheet])
	if err != nil {
		return nil, eris.Wrapf(err, "report: sheet %q", meta.SearchTermSheet)
	}
	meta.KeywordColumn = kwMeta.keywordColumn
	meta.BidColumn = kwMeta.bidColumn

	var placements []model.PlacementRow
	if meta.CampaignSheet != "" {
		var pctColumn string
		placements, pctColumn, err = parseCampaignSheet(f.Sheet[meta.CampaignSheet])
		if err != nil {
			return nil, eris.Wrapf(err, "report: sheet %q", meta.CampaignSheet)
		}
		meta.PercentageColumn = pctColumn
	}

	zap.L().Info("report: workbook loaded",
		zap.String("path", path),
		zap.String("search_term_sheet", meta.SearchTermSheet),
		zap.String("campaign_sheet", meta.CampaignSheet),
		zap.Int("keyword_rows", len(keywords)),
		zap.Int("placement_rows", len(placements)),
	)

	return &Report{
		Snapshot: model.Snapshot{Keywords: keywords, Placements: placements},
		Meta:     meta,
	}, nil
}

// LoadCSV reads a search-term report exported as CSV. German exports often
// ship as cp1252/latin-1; charset names the source encoding ("" = UTF-8).
// CSV exports carry no campaign sheet, so placement analysis is unavailable.
func LoadCSV(path, charset string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: open csv")
	}
	defer f.Close()

	var r io.Reader = f
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "report: unsupported charset %q", charset)
		}
		r = enc.NewDecoder().Reader(f)
	}

	rows, err := readCSVRows(r)
	if err != nil {
		return nil, eris.Wrap(err, "report: read csv")
	}

	keywords, kwMeta, err := parseSearchTermRows(rows)
	if err != nil {
		return nil, eris.Wrap(err, "report: csv")
	}

	zap.L().Info("report: csv loaded",
		zap.String("path", path),
		zap.Int("keyword_rows", len(keywords)),
	)

	return &Report{
		Snapshot: model.Snapshot{Keywords: keywords},
		Meta: Meta{
			SourcePath:    path,
			KeywordColumn: kwMeta.keywordColumn,
			BidColumn:     kwMeta.bidColumn,
		},
	}, nil
}

type searchTermMeta struct {
	keywordColumn string
	bidColumn     string
}

func parseSearchTermSheet(sheet *xlsx.Sheet) ([]model.KeywordRow, searchTermMeta, error) {
	if sheet == nil {
		return nil, searchTermMeta{}, eris.New("sheet is empty")
	}
	return parseSearchTermRows(sheetToRows(sheet))
}

// parseSearchTermRows maps a header row plus data rows onto KeywordRows.
// Raw metrics (clicks, spend, sales, orders) default to 0 on blank cells;
// ratio metrics (ACOS, conversion rate) stay missing so the normalizer can
// derive them from the raw counts.
func parseSearchTermRows(rows [][]string) ([]model.KeywordRow, searchTermMeta, error) {
	if len(rows) == 0 {
		return nil, searchTermMeta{}, eris.New("no rows")
	}

	header := rows[0]
	idx := make(map[string]int, len(header))
	var meta searchTermMeta
	for i, h := range header {
		canonical, ok := searchTermColumns[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := idx[canonical]; dup {
			continue
		}
		idx[canonical] = i
		switch canonical {
		case colKeyword:
			meta.keywordColumn = h
		case colCPC:
			meta.bidColumn = h
		}
	}

	var missing []string
	for _, required := range []string{colClicks, colSpend, colSales, colOrders} {
		if _, ok := idx[required]; !ok {
			missing = append(missing, required)
		}
	}
	if _, hasKW := idx[colKeyword]; !hasKW {
		if _, hasST := idx[colSearchTerm]; !hasST {
			missing = append(missing, colKeyword)
		}
	}
	if len(missing) > 0 {
		return nil, meta, eris.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []model.KeywordRow
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		kw := model.KeywordRow{
			CampaignID:     strings.TrimSpace(cell(row, colCampaignID)),
			Keyword:        strings.TrimSpace(cell(row, colKeyword)),
			SearchTerm:     strings.TrimSpace(cell(row, colSearchTerm)),
			MatchType:      strings.TrimSpace(cell(row, colMatchType)),
			Clicks:         parseInt(cell(row, colClicks)),
			Impressions:    parseInt(cell(row, colImpressions)),
			Orders:         parseInt(cell(row, colOrders)),
			Spend:          parseFloat(cell(row, colSpend)),
			Sales:          parseFloat(cell(row, colSales)),
			CPC:            parseFloat(cell(row, colCPC)),
			ACOS:           parseFraction(cell(row, colACOS)),
			ConversionRate: parseFraction(cell(row, colConversionRate)),
		}
		if kw.Keyword == "" {
			kw.Keyword = kw.SearchTerm
		}
		if kw.Keyword == "" {
			continue
		}
		out = append(out, kw)
	}

	if len(out) == 0 {
		return nil, meta, eris.New("no keyword rows")
	}
	return out, meta, nil
}

// parseCampaignSheet extracts placement (bid adjustment) rows from the
// campaign sheet, ignoring keyword and campaign entity rows.
func parseCampaignSheet(sheet *xlsx.Sheet) ([]model.PlacementRow, string, error) {
	if sheet == nil {
		return nil, "", eris.New("sheet is empty")
	}
	rows := sheetToRows(sheet)
	if len(rows) == 0 {
		return nil, "", eris.New("no rows")
	}

	header := rows[0]
	idx := make(map[string]int, len(header))
	var pctColumn string
	for i, h := range header {
		canonical, ok := campaignColumns[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := idx[canonical]; dup {
			continue
		}
		idx[canonical] = i
		if canonical == colPercentage {
			pctColumn = h
		}
	}

	var missing []string
	for _, required := range []string{colCampaignID, colEntity, colPlacement, colPercentage, colClicks, colSpend, colSales} {
		if _, ok := idx[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, pctColumn, eris.Errorf("missing required columns for placement analysis: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, key string) string {
		i := idx[key]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []model.PlacementRow
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		entity := strings.TrimSpace(strings.ToLower(cell(row, colEntity)))
		if !placementEntities[entity] {
			continue
		}
		label := strings.TrimSpace(cell(row, colPlacement))
		placement, ok := placementLabels[strings.ToLower(label)]
		if !ok {
			continue
		}
		out = append(out, model.PlacementRow{
			CampaignID:       strings.TrimSpace(cell(row, colCampaignID)),
			Placement:        placement,
			PlacementLabel:   label,
			CurrentAdjustPct: parseFloat(cell(row, colPercentage)),
			Clicks:           parseInt(cell(row, colClicks)),
			Spend:            parseFloat(cell(row, colSpend)),
			Sales:            parseFloat(cell(row, colSales)),
		})
	}

	return out, pctColumn, nil
}

func sheetToRows(sheet *xlsx.Sheet) [][]string {
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
