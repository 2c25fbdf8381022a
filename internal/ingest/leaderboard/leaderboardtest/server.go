// Package leaderboardtest runs an in-process fake of the leaderboard API
// for tests.
package leaderboardtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
)

const pageSize = 50

var pathPattern = regexp.MustCompile(`^/api/leaderboards/v2/competitions/games/(\d+)/leaderboards$`)

// Competitor is one leaderboard row served by the fake.
type Competitor struct {
	ID           string
	Name         string
	Height       string
	Weight       string
	Age          string
	OverallScore string
	OverallRank  string
	Scores       []map[string]any
}

// Division is the full leaderboard for one year and division.
type Division struct {
	CompetitionID string
	Events        int
	Competitors   []Competitor
}

// Request records one call the fake received.
type Request struct {
	Year     int
	Division int
	Page     int
	Sort     string
}

type key struct {
	year, division, page int
}

// Server is a fake leaderboard API.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	divisions map[key]Division
	failures  map[key]int
	bodies    map[key]string
	requests  []Request
}

// NewServer starts a fake API that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		divisions: make(map[key]Division),
		failures:  make(map[key]int),
		bodies:    make(map[key]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddDivision registers the leaderboard for year and division.
func (s *Server) AddDivision(year, division int, d Division) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.divisions[key{year, division, 0}] = d
}

// FailPage makes a page answer with status.
func (s *Server) FailPage(year, division, page, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key{year, division, page}] = status
}

// SetBody serves body verbatim for a page.
func (s *Server) SetBody(year, division, page int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[key{year, division, page}] = body
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	m := pathPattern.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.NotFound(w, r)
		return
	}
	year, _ := strconv.Atoi(m[1])
	q := r.URL.Query()
	division, _ := strconv.Atoi(q.Get("division"))
	page, _ := strconv.Atoi(q.Get("page"))

	s.mu.Lock()
	s.requests = append(s.requests, Request{Year: year, Division: division, Page: page, Sort: q.Get("sort")})
	status, failing := s.failures[key{year, division, page}]
	body, custom := s.bodies[key{year, division, page}]
	d, known := s.divisions[key{year, division, 0}]
	s.mu.Unlock()

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
		return
	case custom:
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
		return
	case !known:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PageBody(d, page))
}

// PageBody builds the JSON object the API returns for one page of d.
func PageBody(d Division, page int) map[string]any {
	total := len(d.Competitors)
	totalPages := (total + pageSize - 1) / pageSize

	ordinals := make([]any, d.Events)
	for i := range ordinals {
		ordinals[i] = map[string]any{"ordinal": i + 1}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	rows := make([]any, 0, end-start)
	for _, c := range d.Competitors[start:end] {
		scores := make([]any, 0, len(c.Scores))
		for _, sc := range c.Scores {
			scores = append(scores, sc)
		}
		rows = append(rows, map[string]any{
			"entrant": map[string]any{
				"competitorId":   c.ID,
				"competitorName": c.Name,
				"height":         c.Height,
				"weight":         c.Weight,
				"age":            c.Age,
			},
			"overallScore": c.OverallScore,
			"overallRank":  c.OverallRank,
			"scores":       scores,
		})
	}

	return map[string]any{
		"pagination": map[string]any{
			"currentPage":      page,
			"totalPages":       totalPages,
			"totalCompetitors": total,
		},
		"competition": map[string]any{
			"competitionId": d.CompetitionID,
		},
		"ordinals":        ordinals,
		"leaderboardRows": rows,
	}
}

// Competitors generates n competitors with ids prefix1..prefixN, ranked in
// order, each with events score records. Names are random but stable for a
// given prefix and n.
func Competitors(prefix string, n, events int) []Competitor {
	faker := gofakeit.New(uint64(n)<<8 | uint64(len(prefix)))
	out := make([]Competitor, n)
	for i := range out {
		rank := strconv.Itoa(i + 1)
		scores := make([]map[string]any, events)
		for e := range scores {
			scores[e] = map[string]any{
				"ordinal":      e + 1,
				"rank":         rank,
				"score":        strconv.Itoa(1000 - i),
				"scoreDisplay": fmt.Sprintf("%d lb", 200+i),
			}
		}
		out[i] = Competitor{
			ID:           fmt.Sprintf("%s%d", prefix, i+1),
			Name:         faker.Name(),
			Height:       "70 in",
			Weight:       "190 lb",
			Age:          "28",
			OverallScore: strconv.Itoa(1000 - i),
			OverallRank:  rank,
			Scores:       scores,
		}
	}
	return out
}
