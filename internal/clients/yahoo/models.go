package yahoo

// EarningsRow is one raw earnings-calendar row before universe filtering.
type EarningsRow struct {
	Symbol       string  `json:"symbol"`
	Company      string  `json:"company"`
	EstimatedEPS float64 `json:"estimated_eps"`
	ReportedEPS  float64 `json:"reported_eps"`
}
