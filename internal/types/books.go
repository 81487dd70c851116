package types

import (
	"strings"

	"golang.org/x/text/cases"
)

type Author struct {
	Id         string `json:"id,omitempty" validate:"required"`
	FirstName  string `json:"first_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Name       string `json:"name,omitempty"`
}

// AuthorName builds the display name of an author the way the catalog shows it: "Family, First".
func AuthorName(familyName, firstName string) string {
	familyName = strings.TrimSpace(familyName)
	firstName = strings.TrimSpace(firstName)

	switch {
	case familyName == "":
		return firstName
	case firstName == "":
		return familyName
	default:
		return familyName + ", " + firstName
	}
}

// NameKey folds an author or genre name for case-insensitive matching. Storage compares these keys,
// never the raw names.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

type Genre struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Book references its author and genres by id. Reads may populate Author beyond the id,
// or leave fields empty when they were not projected.
type Book struct {
	Id      string   `json:"id,omitempty"`
	Title   string   `json:"title,omitempty" validate:"required"`
	Author  *Author  `json:"author,omitempty" validate:"required"`
	Summary string   `json:"summary,omitempty" validate:"required"`
	Isbn    string   `json:"isbn,omitempty" validate:"required"`
	Genres  []string `json:"genre,omitempty" validate:"dive,required"`
}
