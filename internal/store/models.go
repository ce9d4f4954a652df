package store

// CountRow is one (day, variation) row of the daily_counts table.
type CountRow struct {
	Date        string
	VariationID string
	Visits      int
	Conversions int
}

// VariationRow is one row of the variations table. ID is nil for variations
// stored without a numeric id.
type VariationRow struct {
	ID   *int
	Name string
}
