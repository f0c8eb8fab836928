package dataset

// Fixed table identifiers. Plans may only reference these.
const (
	FileTrades   = "trades.csv"
	FileHoldings = "holdings.csv"
)

// AllowedFiles is the closed set of table identifiers a plan may reference.
var AllowedFiles = []string{FileTrades, FileHoldings}

// Store holds the loaded tables, keyed by their fixed identifiers.
// It is built once at startup and read-only afterwards, so it is safe
// to share across requests without locking.
type Store struct {
	tables map[string]*Table
}

// NewStore builds a Store from already-loaded tables. Nil entries are skipped.
func NewStore(tables ...*Table) *Store {
	s := &Store{tables: make(map[string]*Table)}
	for _, t := range tables {
		if t != nil {
			s.tables[t.Name] = t
		}
	}
	return s
}

// Table looks up a loaded table by its identifier.
func (s *Store) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Loaded reports whether at least one table is available.
func (s *Store) Loaded() bool { return len(s.tables) > 0 }

// Columns lists the column names of every loaded table, keyed by identifier.
// This feeds both the planner prompt and the /api/columns endpoint.
func (s *Store) Columns() map[string][]string {
	out := make(map[string][]string, len(s.tables))
	for name, t := range s.tables {
		out[name] = t.ColumnNames()
	}
	return out
}
