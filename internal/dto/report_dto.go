package dto

// ItemTotal is one aggregated row of the monthly report.
type ItemTotal struct {
	ItemName string `json:"item_name"`
	Total    int    `json:"total"`
}

type MonthlyReportResponse struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Usage   []ItemTotal `json:"usage"`
	Ordered []ItemTotal `json:"ordered"`
}
