package scraper

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/npb-mcp/internal/fetch"
	"github.com/pfrederiksen/npb-mcp/internal/logger"
	"github.com/pfrederiksen/npb-mcp/internal/player"
	"github.com/pfrederiksen/npb-mcp/internal/team"
)

const (
	BaseURL = "https://npb.jp"

	managerLabel   = "監督"
	minPlayerCells = 7
)

var (
	playerLinkPattern = regexp.MustCompile(`/bis/players/(\w+)\.html`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// UnknownTeamError is returned when a team code is not in the registry
type UnknownTeamError struct {
	Code string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team code: %s", e.Code)
}

// Fetcher returns the UTF-8 body of a page
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

var _ Fetcher = (*fetch.Client)(nil)

// Scraper handles fetching and parsing NPB pages
type Scraper struct {
	fetcher Fetcher
	baseURL string
}

// New creates a Scraper against baseURL. An empty baseURL means npb.jp.
func New(fetcher Fetcher, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Scraper{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Scraper) rosterURL(code string) string {
	return fmt.Sprintf("%s/bis/teams/rst_%s.html", s.baseURL, code)
}

func (s *Scraper) playerURL(id string) string {
	return fmt.Sprintf("%s/bis/players/%s.html", s.baseURL, id)
}

// TeamRoster fetches and parses the roster of the team with the given code.
// Fetch errors are returned unchanged.
func (s *Scraper) TeamRoster(ctx context.Context, code string) ([]player.Summary, error) {
	t, ok := team.ByCode(code)
	if !ok {
		return nil, &UnknownTeamError{Code: code}
	}

	html, err := s.fetcher.Get(ctx, s.rosterURL(code))
	if err != nil {
		return nil, err
	}

	players, err := parseRoster(strings.NewReader(html), t)
	if err != nil {
		return nil, err
	}

	logger.SetGauge("roster.players."+code, float64(len(players)))
	logger.Debug("Parsed roster", logger.Fields{
		"team_code": code,
		"players":   len(players),
	})

	return players, nil
}

// rosterTypeForTable maps a roster table's position on the page to its
// registration type. The page carries no machine-readable label for this.
func rosterTypeForTable(index int) player.RosterType {
	if index == 0 {
		return player.Registered
	}
	return player.Developmental
}

func parseRoster(r io.Reader, t team.Team) ([]player.Summary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	players := make([]player.Summary, 0)

	doc.Find("table.rosterlisttbl").Each(func(tableIdx int, table *goquery.Selection) {
		rosterType := rosterTypeForTable(tableIdx)
		position := ""

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if row.HasClass("rosterMainHead") {
				position = nextPosition(position, row)
				return
			}

			if !row.HasClass("rosterPlayer") && !row.HasClass("rosterRetire") {
				return
			}

			p, ok := parsePlayerRow(row, position)
			if !ok {
				return
			}
			p.Team = t.Name
			p.TeamCode = t.Code
			p.RosterType = rosterType
			players = append(players, p)
		})
	})

	return players, nil
}

// nextPosition returns the position in effect after a section header row.
// The manager header does not start a position group.
func nextPosition(current string, header *goquery.Selection) string {
	label := strings.TrimSpace(header.Find("th.rosterPos").Text())
	if label == "" || label == managerLabel {
		return current
	}
	return label
}

func parsePlayerRow(row *goquery.Selection, position string) (player.Summary, bool) {
	cells := row.Find("td")
	if cells.Length() < minPlayerCells {
		logger.Debug("Skipping short roster row", logger.Fields{"cells": cells.Length()})
		return player.Summary{}, false
	}

	cell := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	nameCell := cells.Eq(1)
	link, _ := nameCell.Find("a").Attr("href")
	playerID := extractPlayerID(link)

	// Managers and coaches are listed without a profile link
	if playerID == "" && link == "" {
		return player.Summary{}, false
	}

	p := player.Summary{
		Number:    cell(0),
		Name:      collapseWhitespace(nameCell.Text()),
		Position:  position,
		PlayerID:  playerID,
		Birthday:  cell(2),
		Height:    cell(3),
		Weight:    cell(4),
		ThrowHand: cell(5),
		BatHand:   cell(6),
	}
	if cells.Length() > minPlayerCells {
		p.Note = cell(7)
	}

	if !p.Valid() {
		logger.Debug("Dropping incomplete roster row", logger.Fields{
			"number":    p.Number,
			"name":      p.Name,
			"position":  p.Position,
			"player_id": p.PlayerID,
		})
		return player.Summary{}, false
	}

	return p, true
}

func extractPlayerID(href string) string {
	if m := playerLinkPattern.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return ""
}

func collapseWhitespace(s string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

// PlayerDetail fetches a player's profile page. An unknown ID is not
// detected: the page simply yields empty fields.
func (s *Scraper) PlayerDetail(ctx context.Context, id string) (player.Detail, error) {
	html, err := s.fetcher.Get(ctx, s.playerURL(id))
	if err != nil {
		return player.Detail{}, err
	}

	return parseDetail(strings.NewReader(html), id)
}

func parseDetail(r io.Reader, id string) (player.Detail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return player.Detail{}, fmt.Errorf("parsing HTML: %w", err)
	}

	text := func(sel string) string {
		return strings.TrimSpace(doc.Find(sel).First().Text())
	}

	return player.Detail{
		PlayerID: id,
		Number:   text("#pc_v_no"),
		Name:     collapseWhitespace(text("#pc_v_name")),
		Kana:     text("#pc_v_kana"),
		Team:     text("#pc_v_team"),
	}, nil
}

// SearchPlayers scans every team's roster in registry order and returns the
// players whose name contains query. Teams are fetched one at a time and the
// first error aborts the search.
func (s *Scraper) SearchPlayers(ctx context.Context, query string) ([]player.Summary, error) {
	results := make([]player.Summary, 0)

	for _, t := range team.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		roster, err := s.TeamRoster(ctx, t.Code)
		if err != nil {
			return nil, err
		}

		for _, p := range roster {
			if strings.Contains(p.Name, query) {
				results = append(results, p)
			}
		}
	}

	logger.AddCounter("search.results", int64(len(results)))
	return results, nil
}
