package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		fields []string
		want   bool
	}{
		{name: "empty search matches", search: "", fields: []string{"anything"}, want: true},
		{name: "blank search matches", search: "   ", fields: []string{"anything"}, want: true},
		{name: "empty search matches no fields", search: "", fields: nil, want: true},
		{name: "case insensitive", search: "LAPTOP", fields: []string{"Laptop Pro"}, want: true},
		{name: "accent insensitive", search: "jose", fields: []string{"José Pérez"}, want: true},
		{name: "accented term", search: "Pérez", fields: []string{"jose perez"}, want: true},
		{name: "any field", search: "20123", fields: []string{"ACME", "20123456789"}, want: true},
		{name: "no match", search: "mouse", fields: []string{"Laptop", "Keyboard"}, want: false},
		{name: "non empty search with no fields", search: "x", fields: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSearch(tt.search, tt.fields...))
		})
	}
}

func TestFilterBySearch(t *testing.T) {
	names := []string{"Arroz", "Azúcar", "Aceite"}
	fields := func(s string) []string { return []string{s} }

	t.Run("empty search returns all rows", func(t *testing.T) {
		assert.Equal(t, names, FilterBySearch(names, "", fields))
	})

	t.Run("filters by substring", func(t *testing.T) {
		assert.Equal(t, []string{"Azúcar"}, FilterBySearch(names, "azu", fields))
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		got := FilterBySearch(names, "leche", fields)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "nandu ceron", FoldText("Ñandú Cerón"))
	assert.Equal(t, "abc", FoldText("ABC"))
}
