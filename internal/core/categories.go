package core

// Category pairs a stable category key with its human-readable label.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// categories is the fixed enumerated category set, in display order.
var categories = []Category{
	{Key: "food", Label: "Food & Dining"},
	{Key: "transportation", Label: "Transportation"},
	{Key: "housing", Label: "Housing"},
	{Key: "utilities", Label: "Utilities"},
	{Key: "entertainment", Label: "Entertainment"},
	{Key: "healthcare", Label: "Healthcare"},
	{Key: "shopping", Label: "Shopping"},
	{Key: "personal", Label: "Personal Care"},
	{Key: "education", Label: "Education"},
	{Key: "travel", Label: "Travel"},
	{Key: "other", Label: "Other"},
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryLabel resolves a category key to its display label, falling back to
// the raw key for unrecognized values so they render as-is.
func CategoryLabel(key string) string {
	for _, c := range categories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
