package report

import "strings"

// Canonical column keys produced by header normalization.
const (
	colSearchTerm     = "customer_search_term"
	colKeyword        = "keyword"
	colMatchType      = "match_type"
	colCampaignID     = "campaign_id"
	colEntity         = "entity"
	colPlacement      = "placement"
	colPercentage     = "percentage"
	colClicks         = "clicks"
	colImpressions    = "impressions"
	colSpend          = "spend"
	colSales          = "sales"
	colOrders         = "orders"
	colCPC            = "cpc"
	colACOS           = "acos"
	colConversionRate = "conversion_rate"
)

// searchTermColumns maps normalized bulksheet headers (German and English
// exports) to canonical keys for the search-term sheet.
var searchTermColumns = map[string]string{
	"suchbegriff":               colSearchTerm,
	"suchbegriff_eines_kunden":  colSearchTerm,
	"customer_search_term":      colSearchTerm,
	"keyword-text":              colKeyword,
	"keyword_text":              colKeyword,
	"keyword":                   colKeyword,
	"übereinstimmungstyp":       colMatchType,
	"match_type":                colMatchType,
	"kampagnen-id":              colCampaignID,
	"campaign_id":               colCampaignID,
	"klicks":                    colClicks,
	"clicks":                    colClicks,
	"impressionen":              colImpressions,
	"impressions":               colImpressions,
	"ausgaben":                  colSpend,
	"spend":                     colSpend,
	"verkäufe":                  colSales,
	"umsatz":                    colSales,
	"sales":                     colSales,
	"bestellungen":              colOrders,
	"orders":                    colOrders,
	"cpc":                       colCPC,
	"kosten_pro_klick":          colCPC,
	"acos":                      colACOS,
	"conversion_rate":           colConversionRate,
	"konversionsrate":           colConversionRate,
}

// campaignColumns maps normalized campaign-sheet headers to canonical keys.
// The campaign sheet carries both keyword and placement (bid adjustment)
// entity rows.
var campaignColumns = map[string]string{
	"kampagnen-id":        colCampaignID,
	"campaign_id":         colCampaignID,
	"entität":             colEntity,
	"entity":              colEntity,
	"platzierung":         colPlacement,
	"placement":           colPlacement,
	"prozentsatz":         colPercentage,
	"percentage":          colPercentage,
	"klicks":              colClicks,
	"clicks":              colClicks,
	"ausgaben":            colSpend,
	"spend":               colSpend,
	"verkäufe":            colSales,
	"umsatz":              colSales,
	"sales":               colSales,
	"bestellungen":        colOrders,
	"orders":              colOrders,
	"keyword-text":        colKeyword,
	"keyword_text":        colKeyword,
	"keyword":             colKeyword,
	"acos":                colACOS,
}

// placementLabels maps normalized placement cell values to the canonical
// placement names. Amazon emits localized labels.
var placementLabels = map[string]string{
	"platzierung produktseite":   "product_page",
	"placement product page":     "product_page",
	"platzierung rest der suche": "rest_of_search",
	"placement rest of search":   "rest_of_search",
	"top-platzierung":            "top_of_search",
	"placement top":              "top_of_search",
	"placement top of search":    "top_of_search",
}

// placementEntities holds the entity-column values marking bid-adjustment rows.
var placementEntities = map[string]bool{
	"gebotsanpassung":                 true,
	"bidding adjustment":              true,
	"bidding adjustment by placement": true,
}

// normalizeHeader lowercases, trims, and replaces spaces with underscores,
// matching the bulksheet header conventions.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(h)), " ", "_")
}

// findSearchTermSheet picks the search-term sheet by name heuristics.
func findSearchTermSheet(names []string) string {
	for _, n := range names {
		if n == "SP Bericht Suchbegriff" {
			return n
		}
	}
	for _, n := range names {
		if strings.Contains(n, "Suchbegriff") || strings.Contains(n, "Search Term") || strings.Contains(n, "SP Bericht") {
			return n
		}
	}
	return ""
}

// findCampaignSheet picks the campaign sheet by name heuristics.
func findCampaignSheet(names []string) string {
	for _, n := range names {
		if strings.Contains(n, "Kampagne") || strings.Contains(n, "Campaign") || strings.Contains(n, "Sponsored Products") {
			return n
		}
	}
	return ""
}
