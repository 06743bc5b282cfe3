package player

import (
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/npb-mcp/internal/team"
)

// WriteTeams writes the team list grouped by league
func WriteTeams(w io.Writer, teams []team.Team) error {
	var b strings.Builder
	for i, league := range []team.League{team.Central, team.Pacific} {
		group := make([]team.Team, 0, len(teams))
		for _, t := range teams {
			if t.League == league {
				group = append(group, t)
			}
		}
		if len(group) == 0 {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "【%s・リーグ】\n", league)
		for _, t := range group {
			fmt.Fprintf(&b, "  %s (code: %s)\n", t.Name, t.Code)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteRoster writes a roster with a heading line each time the position changes
func WriteRoster(w io.Writer, teamName string, players []Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "【%s】選手一覧 (%d名)\n\n", teamName, len(players))

	currentPos := ""
	for _, p := range players {
		if p.Position != currentPos {
			currentPos = p.Position
			fmt.Fprintf(&b, "■ %s\n", currentPos)
		}
		tag := ""
		if p.RosterType == Developmental {
			tag = " [育成]"
		}
		fmt.Fprintf(&b, "  #%s %s%s\n", p.Number, p.Name, tag)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDetail writes a player's profile fields
func WriteDetail(w io.Writer, d Detail) error {
	_, err := fmt.Fprintf(w, "選手名: %s\nふりがな: %s\n所属: %s\n背番号: %s\n",
		d.Name, d.Kana, d.Team, d.Number)
	return err
}

// WriteSearch writes search hits, or a not-found line when there are none
func WriteSearch(w io.Writer, query string, results []Summary) error {
	if len(results) == 0 {
		_, err := fmt.Fprintf(w, "「%s」に該当する選手は見つかりませんでした\n", query)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "「%s」の検索結果 (%d件)\n\n", query, len(results))
	for _, p := range results {
		fmt.Fprintf(&b, "#%s %s - %s (%s) [ID: %s]\n", p.Number, p.Name, p.Team, p.Position, p.PlayerID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
