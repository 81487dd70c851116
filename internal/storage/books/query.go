package books

import "strings"

var knownFields = []string{FieldId, FieldTitle, FieldAuthor, FieldSummary, FieldIsbn, FieldGenre}

// projected turns a projection into a set of known fields. An empty projection selects all fields.
func projected(projection []string) map[string]struct{} {
	ret := make(map[string]struct{}, len(knownFields))

	if len(projection) == 0 {
		for _, f := range knownFields {
			ret[f] = struct{}{}
		}
		return ret
	}

	for _, f := range projection {
		f = strings.ToLower(strings.TrimSpace(f))
		for _, known := range knownFields {
			if f == known {
				ret[f] = struct{}{}
				break
			}
		}
	}

	ret[FieldId] = struct{}{}

	return ret
}

// ParseProjection splits a projection given as "title author" or "title,author".
func ParseProjection(s string) []string {
	return strings.FieldsFunc(s, isListSeparator)
}

// ParseSort reads a sort spec such as "title,-isbn" or "title:asc isbn:desc": a leading "-" or a
// ":desc"/":-1" suffix sorts descending, everything else ascending.
func ParseSort(s string) []SortField {
	var ret []SortField

	for _, part := range strings.FieldsFunc(s, isListSeparator) {
		order := Asc

		if strings.HasPrefix(part, "-") {
			order = Desc
			part = part[1:]
		} else if field, dir, ok := strings.Cut(part, ":"); ok {
			part = field
			switch strings.ToLower(dir) {
			case "desc", "descending", "-1":
				order = Desc
			}
		}

		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		ret = append(ret, SortField{Field: part, Order: order})
	}

	return ret
}

func isListSeparator(r rune) bool {
	return r == ',' || r == ' '
}
