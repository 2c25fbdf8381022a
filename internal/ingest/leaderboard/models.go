package leaderboard

const (
	// PageSize is the number of leaderboard rows the API returns per page.
	PageSize = 50

	// FirstGamesYear is the earliest season on the leaderboard API.
	FirstGamesYear = 2007
)

// Division selects the competitor category.
type Division int

const (
	DivisionBoth  Division = 0
	DivisionMen   Division = 1
	DivisionWomen Division = 2
)

// Valid reports whether the API accepts d.
func (d Division) Valid() bool {
	return d == DivisionBoth || d == DivisionMen || d == DivisionWomen
}

// Expand returns the divisions a request fans out to: 1 and 2 stay as they
// are, anything else becomes both, men first.
func (d Division) Expand() []Division {
	switch d {
	case DivisionMen:
		return []Division{DivisionMen}
	case DivisionWomen:
		return []Division{DivisionWomen}
	default:
		return []Division{DivisionMen, DivisionWomen}
	}
}

func (d Division) String() string {
	switch d {
	case DivisionMen:
		return "men"
	case DivisionWomen:
		return "women"
	case DivisionBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Metadata summarizes one division's leaderboard.
type Metadata struct {
	CompetitionID    string `json:"competitionId"`
	TotalPages       int    `json:"totalPages"`
	TotalCompetitors int    `json:"totalCompetitors"`
	TotalEvents      int    `json:"totalEvents"`
}

// RowsOnPage returns how many populated rows page holds. Every page but the
// last is full; the last holds the remainder, which is a full page when the
// competitor count is an exact multiple of PageSize.
func (m Metadata) RowsOnPage(page int) int {
	if page < 1 || page > m.TotalPages {
		return 0
	}
	if page < m.TotalPages {
		return PageSize
	}
	n := m.TotalCompetitors - (m.TotalPages-1)*PageSize
	if n < 0 {
		return 0
	}
	if n > PageSize {
		return PageSize
	}
	return n
}

// Page is one decoded leaderboard response.
type Page struct {
	Metadata
	CurrentPage int

	rows []any
}

// RowCount is the number of rows the server actually returned.
func (p *Page) RowCount() int {
	return len(p.rows)
}

// Row is one competitor on a page.
type Row struct {
	Entrant      map[string]any
	CompetitorID any
	OverallScore string
	OverallRank  string

	index  int
	scores any
}
