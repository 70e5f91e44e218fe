package icons

import "testing"

func TestSuggest(t *testing.T) {
	tests := []struct {
		name         string
		categoryName string
		want         string
	}{
		{"exact keyword", "food", "🍽️"},
		{"case insensitive", "Food", "🍽️"},
		{"substring match", "Fast Food", "🍽️"},
		{"first keyword wins", "food at a restaurant", "🍽️"},
		{"rent", "Monthly Rent", "🏠"},
		{"coffee", "coffee shops", "☕"},
		{"travel", "Travel & Vacation", "✈️"},
		{"unknown name falls back", "miscellaneous", DefaultIcon},
		{"empty name falls back", "", DefaultIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.categoryName); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.categoryName, got, tt.want)
			}
		})
	}
}
