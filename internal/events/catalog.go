package events

// Event is read-only reference data; the catalog is fixed for the
// running edition of the talent search.
type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CategoryGroup is a category with its events, in catalog order.
type CategoryGroup struct {
	Category string  `json:"category"`
	Events   []Event `json:"events"`
}

var catalog = []Event{
	{ID: "1", Name: "Khatak", Category: "Dance"},
	{ID: "2", Name: "Bharatnatyam", Category: "Dance"},
	{ID: "3", Name: "Bollywood", Category: "Dance"},
	{ID: "4", Name: "One Act", Category: "Drama"},
	{ID: "5", Name: "Mono", Category: "Drama"},
	{ID: "6", Name: "UI/UX", Category: "Website"},
}

// All returns the full catalog.
func All() []Event {
	out := make([]Event, len(catalog))
	copy(out, catalog)
	return out
}

// Get looks up an event by id.
func Get(id string) (Event, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// ByCategory groups the catalog by category, preserving first-seen
// category order. The category set is derived, not hard-coded.
func ByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, e := range catalog {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, CategoryGroup{Category: e.Category})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}
