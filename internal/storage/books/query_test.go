package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProjection(t *testing.T) {
	assert.Equal(t, []string{"title", "author"}, ParseProjection("title author"))
	assert.Equal(t, []string{"title", "author"}, ParseProjection("title,author"))
	assert.Equal(t, []string{"title", "isbn"}, ParseProjection(" title, ,isbn "))
	assert.Empty(t, ParseProjection(""))
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []SortField
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "prefix_minus_is_descending",
			in:   "title,-isbn",
			want: []SortField{{Field: "title", Order: Asc}, {Field: "isbn", Order: Desc}},
		},
		{
			name: "suffix_direction",
			in:   "title:desc author:asc summary:-1",
			want: []SortField{{Field: "title", Order: Desc}, {Field: "author", Order: Asc}, {Field: "summary", Order: Desc}},
		},
		{
			name: "field_names_are_lower_cased",
			in:   "Title",
			want: []SortField{{Field: "title", Order: Asc}},
		},
		{
			name: "lonely_minus_is_dropped",
			in:   "-,title",
			want: []SortField{{Field: "title", Order: Asc}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.in))
		})
	}
}

func TestProjected(t *testing.T) {
	all := projected(nil)
	assert.Len(t, all, len(knownFields))

	fields := projected([]string{"Title", "author", "publisher"})
	assert.Equal(t, map[string]struct{}{
		FieldId:     {},
		FieldTitle:  {},
		FieldAuthor: {},
	}, fields)

	onlyUnknown := projected([]string{"publisher"})
	assert.Equal(t, map[string]struct{}{FieldId: {}}, onlyUnknown)
}
