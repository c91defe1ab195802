package quote

// Set is the insertion-ordered collection of records for one run, keyed
// by company name. Iteration order matches the order records were added,
// which is the symbol list order of the run.
type Set struct {
	order  []string
	byName map[string]Record
}

func NewSet() *Set {
	return &Set{byName: make(map[string]Record)}
}

// Add appends rec, replacing any earlier record for the same company
// without disturbing its position.
func (s *Set) Add(rec Record) {
	if _, ok := s.byName[rec.CompanyName]; !ok {
		s.order = append(s.order, rec.CompanyName)
	}
	s.byName[rec.CompanyName] = rec
}

func (s *Set) Get(companyName string) (Record, bool) {
	rec, ok := s.byName[companyName]
	return rec, ok
}

func (s *Set) Len() int { return len(s.order) }

// Records returns the records in insertion order.
func (s *Set) Records() []Record {
	out := make([]Record, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
