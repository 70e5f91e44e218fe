// Package icons suggests an emoji icon for a category from its name.
package icons

import "strings"

// DefaultIcon is returned when no keyword matches.
const DefaultIcon = "💰"

// mapping pairs a lowercase keyword with its icon. Order matters: the first
// keyword contained in the category name wins, so broader keywords come
// before the more specific ones that share substrings.
var mapping = []struct {
	keyword string
	icon    string
}{
	{"food", "🍽️"},
	{"transport", "🚗"},
	{"shopping", "🛒"},
	{"entertainment", "🎬"},
	{"health", "🏥"},
	{"education", "📚"},
	{"utilities", "💡"},
	{"rent", "🏠"},
	{"salary", "💰"},
	{"investment", "📈"},
	{"gift", "🎁"},
	{"travel", "✈️"},
	{"gas", "⛽"},
	{"groceries", "🛒"},
	{"restaurant", "🍽️"},
	{"coffee", "☕"},
	{"gym", "💪"},
	{"medicine", "💊"},
	{"clothes", "👕"},
	{"phone", "📱"},
	{"internet", "🌐"},
}

// Suggest returns an icon for the given category name. Matching is
// case-insensitive substring containment; unknown names get DefaultIcon.
func Suggest(categoryName string) string {
	name := strings.ToLower(categoryName)
	for _, m := range mapping {
		if strings.Contains(name, m.keyword) {
			return m.icon
		}
	}
	return DefaultIcon
}
