// Package player defines the player records produced by the scraper and
// renders them as the plain-text reports returned by the query tools.
package player

// RosterType distinguishes the registered roster from the developmental one
type RosterType string

const (
	Registered    RosterType = "支配下"
	Developmental RosterType = "育成"
)

// Summary is one player row from a team roster page
type Summary struct {
	Number     string     `json:"number"`
	Name       string     `json:"name"`
	Position   string     `json:"position"`
	Team       string     `json:"team"`
	TeamCode   string     `json:"teamCode"`
	PlayerID   string     `json:"playerId"`
	Birthday   string     `json:"birthday"`
	Height     string     `json:"height"`
	Weight     string     `json:"weight"`
	ThrowHand  string     `json:"throwHand"`
	BatHand    string     `json:"batHand"`
	Note       string     `json:"note"`
	RosterType RosterType `json:"rosterType"`
}

// Valid reports whether the fields every emitted row must carry are present
func (s Summary) Valid() bool {
	return s.Number != "" && s.Name != "" && s.Position != "" && s.PlayerID != ""
}

// Detail is the data read from a player's profile page
type Detail struct {
	PlayerID string `json:"playerId"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	Kana     string `json:"kana"`
	Team     string `json:"team"`
}

// FilterRosterType returns the players with the given roster type, in order
func FilterRosterType(players []Summary, rt RosterType) []Summary {
	out := make([]Summary, 0, len(players))
	for _, p := range players {
		if p.RosterType == rt {
			out = append(out, p)
		}
	}
	return out
}
