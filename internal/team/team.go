package team

import (
	"fmt"
	"strings"
)

// League identifies one of the two NPB leagues
type League string

const (
	Central League = "セントラル"
	Pacific League = "パシフィック"
)

// Team is a single club in the registry
type Team struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	League League `json:"league"`
}

var teams = []Team{
	{Code: "g", Name: "読売ジャイアンツ", League: Central},
	{Code: "t", Name: "阪神タイガース", League: Central},
	{Code: "db", Name: "横浜DeNAベイスターズ", League: Central},
	{Code: "c", Name: "広島東洋カープ", League: Central},
	{Code: "s", Name: "東京ヤクルトスワローズ", League: Central},
	{Code: "d", Name: "中日ドラゴンズ", League: Central},
	{Code: "h", Name: "福岡ソフトバンクホークス", League: Pacific},
	{Code: "f", Name: "北海道日本ハムファイターズ", League: Pacific},
	{Code: "m", Name: "千葉ロッテマリーンズ", League: Pacific},
	{Code: "e", Name: "東北楽天ゴールデンイーグルス", League: Pacific},
	{Code: "b", Name: "オリックス・バファローズ", League: Pacific},
	{Code: "l", Name: "埼玉西武ライオンズ", League: Pacific},
}

// All returns every team in registry order. The slice is a copy.
func All() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// ByCode looks up a team by its code
func ByCode(code string) (Team, bool) {
	for _, t := range teams {
		if t.Code == code {
			return t, true
		}
	}
	return Team{}, false
}

// ByLeague returns the teams of one league in registry order
func ByLeague(league League) []Team {
	out := make([]Team, 0, len(teams)/2)
	for _, t := range teams {
		if t.League == league {
			out = append(out, t)
		}
	}
	return out
}

// Codes returns all team codes in registry order
func Codes() []string {
	codes := make([]string, 0, len(teams))
	for _, t := range teams {
		codes = append(codes, t.Code)
	}
	return codes
}

// ParseLeague accepts a league's Japanese name or a short English alias
func ParseLeague(s string) (League, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Central), "central", "ce", "セ", "セ・リーグ":
		return Central, nil
	case string(Pacific), "pacific", "pa", "パ", "パ・リーグ":
		return Pacific, nil
	default:
		return "", fmt.Errorf("unknown league: %q (must be 'central' or 'pacific')", s)
	}
}
