package permode

// PerMode values of the league dashboard endpoints.
const (
	Totals            = "Totals"
	PerGame           = "PerGame"
	Per100Possessions = "Per100Possessions"
)
