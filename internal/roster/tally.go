package roster

// Genders holds the two recognized gender literals.
type Genders struct {
	Male   string
	Female string
}

// DefaultGenders are the Khmer literals used by the roster sheet.
var DefaultGenders = Genders{Male: "ប្រុស", Female: "ស្រី"}

// Summary is the (total, male, female) triple for one fetch cycle.
type Summary struct {
	Total  int `json:"total"`
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Aggregate counts records by gender. Unrecognized or absent genders count
// toward Total only.
func Aggregate(records []Record, g Genders) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case r.Gender.Is(g.Male):
			s.Male++
		case r.Gender.Is(g.Female):
			s.Female++
		}
	}
	return s
}
