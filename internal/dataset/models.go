package dataset

import "strconv"

// DateLayout is the calendar date format used for record dates and period labels.
const DateLayout = "2006-01-02"

// Variation is one arm of an experiment.
type Variation struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name"`
}

// VariationID returns the string key a variation's counts are stored under.
// Variations without an id resolve to "0".
func (v Variation) VariationID() string {
	if v.ID == nil {
		return "0"
	}
	return strconv.Itoa(*v.ID)
}

// DailyRecord holds one calendar day of counts keyed by variation id.
// A missing key means zero.
type DailyRecord struct {
	Date        string         `json:"date"`
	Visits      map[string]int `json:"visits"`
	Conversions map[string]int `json:"conversions"`
}

// VisitsFor returns the visit count for id, zero when absent.
func (r DailyRecord) VisitsFor(id string) int {
	return r.Visits[id]
}

// ConversionsFor returns the conversion count for id, zero when absent.
func (r DailyRecord) ConversionsFor(id string) int {
	return r.Conversions[id]
}

// Dataset is the input document: the experiment arms and their daily counts.
type Dataset struct {
	Variations []Variation   `json:"variations"`
	Data       []DailyRecord `json:"data"`
}

// VariationIDs returns the resolved ids of all variations in dataset order.
func (d *Dataset) VariationIDs() []string {
	ids := make([]string, len(d.Variations))
	for i, v := range d.Variations {
		ids[i] = v.VariationID()
	}
	return ids
}

// VariationIndex returns the position of the variation with the given id, or -1.
func (d *Dataset) VariationIndex(id string) int {
	for i, v := range d.Variations {
		if v.VariationID() == id {
			return i
		}
	}
	return -1
}

// VariationName returns the display name for id, falling back to the id itself.
func (d *Dataset) VariationName(id string) string {
	if i := d.VariationIndex(id); i >= 0 {
		return d.Variations[i].Name
	}
	return id
}
