package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/npb-mcp/internal/player"
	"github.com/pfrederiksen/npb-mcp/internal/team"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RosterResult is the JSON shape of the roster command
type RosterResult struct {
	Team    team.Team        `json:"team"`
	Count   int              `json:"count"`
	Players []player.Summary `json:"players"`
}

// SearchResult is the JSON shape of the search command
type SearchResult struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Players []player.Summary `json:"players"`
}

// WriteTeams writes the team list in the specified format
func WriteTeams(w io.Writer, teams []team.Team, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, teams)
	case FormatText:
		return player.WriteTeams(w, teams)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRoster writes a team roster in the specified format
func WriteRoster(w io.Writer, t team.Team, players []player.Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, RosterResult{Team: t, Count: len(players), Players: players})
	case FormatText:
		return player.WriteRoster(w, t.Name, players)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDetail writes a player profile in the specified format
func WriteDetail(w io.Writer, d player.Detail, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, d)
	case FormatText:
		return player.WriteDetail(w, d)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteSearch writes search results in the specified format
func WriteSearch(w io.Writer, query string, results []player.Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, SearchResult{Query: query, Count: len(results), Players: results})
	case FormatText:
		return player.WriteSearch(w, query, results)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
