package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pfrederiksen/npb-mcp/internal/fetch"
	"github.com/pfrederiksen/npb-mcp/internal/player"
	"github.com/pfrederiksen/npb-mcp/internal/team"
)

// stubFetcher serves canned pages by URL and records every request
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *stubFetcher) Get(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return "", &fetch.FetchError{URL: url, StatusCode: 404}
}

type row struct {
	number, name, id string
}

// rosterHTML builds a two-table roster page with every row under a pitcher header
func rosterHTML(registered, developmental []row) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, rows := range [][]row{registered, developmental} {
		b.WriteString(`<table class="rosterlisttbl">`)
		b.WriteString(`<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>`)
		for _, r := range rows {
			fmt.Fprintf(&b, `<tr class="rosterPlayer"><td>%s</td><td><a href="/bis/players/%s.html">%s</a></td>`+
				`<td>2000.01.01</td><td>180</td><td>80</td><td>右</td><td>右</td></tr>`, r.number, r.id, r.name)
		}
		b.WriteString("</table>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// leaguePages gives every team one registered and one developmental player
func leaguePages(base string) map[string]string {
	pages := make(map[string]string)
	for _, t := range team.All() {
		reg := []row{{"1", "選手　" + t.Code + "一", t.Code + "001"}}
		dev := []row{{"001", "育成　" + t.Code + "二", t.Code + "002"}}
		if t.Code == "h" {
			reg = append(reg, row{"20", "田中　正義", "41045146"})
		}
		pages[fmt.Sprintf("%s/bis/teams/rst_%s.html", base, t.Code)] = rosterHTML(reg, dev)
	}
	return pages
}

func TestTeamRoster_UnknownTeam(t *testing.T) {
	f := &stubFetcher{}
	s := New(f, "https://npb.test")

	players, err := s.TeamRoster(context.Background(), "x")

	var ute *UnknownTeamError
	if !errors.As(err, &ute) {
		t.Fatalf("TeamRoster(x) error = %v, want *UnknownTeamError", err)
	}
	if ute.Code != "x" {
		t.Errorf("UnknownTeamError.Code = %q, want x", ute.Code)
	}
	if !strings.Contains(err.Error(), "unknown team code") {
		t.Errorf("error message = %q, should mention unknown team code", err.Error())
	}
	if players != nil {
		t.Errorf("TeamRoster(x) returned %d players, want nil", len(players))
	}
	if len(f.calls) != 0 {
		t.Errorf("TeamRoster(x) made %d fetches, want 0", len(f.calls))
	}
}

func TestTeamRoster_FetchErrorUnchanged(t *testing.T) {
	url := "https://npb.test/bis/teams/rst_t.html"
	want := &fetch.FetchError{URL: url, StatusCode: 503}
	f := &stubFetcher{errs: map[string]error{url: want}}

	players, err := New(f, "https://npb.test").TeamRoster(context.Background(), "t")

	if err != want {
		t.Errorf("TeamRoster() error = %v, want the fetcher's error unchanged", err)
	}
	if players != nil {
		t.Errorf("TeamRoster() returned %d players on fetch failure, want nil", len(players))
	}
}

func TestTeamRoster_URL(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{}}
	f.pages["https://npb.test/bis/teams/rst_db.html"] = rosterHTML(nil, nil)

	if _, err := New(f, "https://npb.test/").TeamRoster(context.Background(), "db"); err != nil {
		t.Fatalf("TeamRoster(db) unexpected error: %v", err)
	}
	if len(f.calls) != 1 || f.calls[0] != "https://npb.test/bis/teams/rst_db.html" {
		t.Errorf("fetched %v, want the db roster page once", f.calls)
	}
}

func TestParseRoster_EdgeCases(t *testing.T) {
	giants, _ := team.ByCode("g")

	tests := []struct {
		name      string
		html      string
		wantCount int
		check     func(*testing.T, []player.Summary)
	}{
		{
			name:      "no roster tables",
			html:      `<html><body><p>メンテナンス中</p></body></html>`,
			wantCount: 0,
		},
		{
			name: "player before any header is dropped",
			html: `<table class="rosterlisttbl">
				<tr class="rosterPlayer"><td>1</td><td><a href="/bis/players/100.html">先頭</a></td><td></td><td></td><td></td><td></td><td></td></tr>
				<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>
				<tr class="rosterPlayer"><td>2</td><td><a href="/bis/players/200.html">次</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].PlayerID != "200" {
					t.Errorf("PlayerID = %q, want 200", ps[0].PlayerID)
				}
			},
		},
		{
			name: "manager header keeps previous position",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>
				<tr class="rosterMainHead"><th class="rosterPos">監督</th></tr>
				<tr class="rosterPlayer"><td>3</td><td><a href="/bis/players/300.html">投げる</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].Position != "投手" {
					t.Errorf("Position = %q, want 投手", ps[0].Position)
				}
			},
		},
		{
			name: "empty header label keeps previous position",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">捕手</th></tr>
				<tr class="rosterMainHead"><th class="rosterPos">  </th></tr>
				<tr class="rosterPlayer"><td>4</td><td><a href="/bis/players/400.html">受ける</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].Position != "捕手" {
					t.Errorf("Position = %q, want 捕手", ps[0].Position)
				}
			},
		},
		{
			name: "position resets per table",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">外野手</th></tr>
				<tr class="rosterPlayer"><td>5</td><td><a href="/bis/players/500.html">外</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>
			<table class="rosterlisttbl">
				<tr class="rosterPlayer"><td>005</td><td><a href="/bis/players/550.html">育成外</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].PlayerID != "500" {
					t.Errorf("PlayerID = %q, want 500", ps[0].PlayerID)
				}
			},
		},
		{
			name: "rows without roster classes ignored",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">内野手</th></tr>
				<tr><td>6</td><td><a href="/bis/players/600.html">無印</a></td><td></td><td></td><td></td><td></td><td></td></tr>
				<tr class="rosterRetire"><td>7</td><td><a href="/bis/players/700.html">引退</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].Name != "引退" {
					t.Errorf("Name = %q, want 引退", ps[0].Name)
				}
			},
		},
		{
			name: "other tables ignored",
			html: `<table class="schedule">
				<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>
				<tr class="rosterPlayer"><td>8</td><td><a href="/bis/players/800.html">別表</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 0,
		},
		{
			name: "note only when eighth cell present",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>
				<tr class="rosterPlayer"><td>9</td><td><a href="/bis/players/900.html">七列</a></td><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td></tr>
				<tr class="rosterPlayer"><td>10</td><td><a href="/bis/players/1000.html">八列</a></td><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td> 新入団 </td></tr>
			</table>`,
			wantCount: 2,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].Note != "" {
					t.Errorf("seven-cell Note = %q, want empty", ps[0].Note)
				}
				if ps[0].BatHand != "e" || ps[0].Birthday != "a" {
					t.Errorf("cells mapped wrong: %+v", ps[0])
				}
				if ps[1].Note != "新入団" {
					t.Errorf("eight-cell Note = %q, want 新入団", ps[1].Note)
				}
			},
		},
		{
			name: "empty number dropped",
			html: `<table class="rosterlisttbl">
				<tr class="rosterMainHead"><th class="rosterPos">投手</th></tr>
				<tr class="rosterPlayer"><td> </td><td><a href="/bis/players/1100.html">無番</a></td><td></td><td></td><td></td><td></td><td></td></tr>
			</table>`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players, err := parseRoster(strings.NewReader(tt.html), giants)
			if err != nil {
				t.Fatalf("parseRoster() error: %v", err)
			}
			if players == nil {
				t.Fatal("parseRoster() returned nil, want a non-nil slice")
			}
			if len(players) != tt.wantCount {
				t.Fatalf("parseRoster() returned %d players, want %d: %+v", len(players), tt.wantCount, players)
			}
			for _, p := range players {
				if !p.Valid() {
					t.Errorf("invalid player emitted: %+v", p)
				}
			}
			if tt.check != nil {
				tt.check(t, players)
			}
		})
	}
}

func TestParseDetail_MissingElements(t *testing.T) {
	d, err := parseDetail(strings.NewReader(`<html><body><h1>ページが見つかりません</h1></body></html>`), "00000000")
	if err != nil {
		t.Fatalf("parseDetail() error: %v", err)
	}

	want := player.Detail{PlayerID: "00000000"}
	if d != want {
		t.Errorf("parseDetail() = %+v, want blank fields with ID only", d)
	}
}

func TestPlayerDetail_FetchError(t *testing.T) {
	url := "https://npb.test/bis/players/nope.html"
	want := &fetch.FetchError{URL: url, StatusCode: 404}
	f := &stubFetcher{errs: map[string]error{url: want}}

	_, err := New(f, "https://npb.test").PlayerDetail(context.Background(), "nope")
	if err != want {
		t.Errorf("PlayerDetail() error = %v, want the fetcher's error unchanged", err)
	}
}

func TestSearchPlayers(t *testing.T) {
	base := "https://npb.test"

	tests := []struct {
		name      string
		query     string
		wantCount int
		check     func(*testing.T, []player.Summary)
	}{
		{
			name:      "empty query returns every roster in registry order",
			query:     "",
			wantCount: 25,
			check: func(t *testing.T, ps []player.Summary) {
				codes := team.Codes()
				i := 0
				for _, code := range codes {
					n := 2
					if code == "h" {
						n = 3
					}
					for j := 0; j < n; j++ {
						if ps[i].TeamCode != code {
							t.Fatalf("result %d TeamCode = %q, want %q", i, ps[i].TeamCode, code)
						}
						i++
					}
				}
			},
		},
		{
			name:      "substring match",
			query:     "田中",
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].Name != "田中 正義" || ps[0].Team != "福岡ソフトバンクホークス" {
					t.Errorf("result = %+v", ps[0])
				}
			},
		},
		{
			name:      "match spans whitespace-normalized name",
			query:     "育成 l",
			wantCount: 1,
			check: func(t *testing.T, ps []player.Summary) {
				if ps[0].RosterType != player.Developmental {
					t.Errorf("RosterType = %q, want 育成", ps[0].RosterType)
				}
			},
		},
		{
			name:      "case sensitive",
			query:     "G一",
			wantCount: 0,
		},
		{
			name:      "no match",
			query:     "存在しない選手",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{pages: leaguePages(base)}
			results, err := New(f, base).SearchPlayers(context.Background(), tt.query)

			if err != nil {
				t.Fatalf("SearchPlayers(%q) unexpected error: %v", tt.query, err)
			}
			if results == nil {
				t.Fatal("SearchPlayers() returned nil, want an empty slice")
			}
			if len(results) != tt.wantCount {
				t.Fatalf("SearchPlayers(%q) returned %d results, want %d", tt.query, len(results), tt.wantCount)
			}
			if len(f.calls) != 12 {
				t.Errorf("SearchPlayers made %d fetches, want 12", len(f.calls))
			}
			if tt.check != nil {
				tt.check(t, results)
			}
		})
	}
}

func TestSearchPlayers_FirstFailureAborts(t *testing.T) {
	base := "https://npb.test"
	failURL := base + "/bis/teams/rst_c.html"
	want := &fetch.FetchError{URL: failURL, StatusCode: 500}

	f := &stubFetcher{
		pages: leaguePages(base),
		errs:  map[string]error{failURL: want},
	}

	results, err := New(f, base).SearchPlayers(context.Background(), "")

	if err != want {
		t.Fatalf("SearchPlayers() error = %v, want the failing team's error", err)
	}
	if results != nil {
		t.Errorf("SearchPlayers() returned %d partial results, want nil", len(results))
	}
	// g, t, db, c fetched; nothing after the failure
	if len(f.calls) != 4 {
		t.Errorf("SearchPlayers made %d fetches after failure, want 4: %v", len(f.calls), f.calls)
	}
	if f.calls[len(f.calls)-1] != failURL {
		t.Errorf("last fetch = %q, want %q", f.calls[len(f.calls)-1], failURL)
	}
}

func TestSearchPlayers_CanceledContext(t *testing.T) {
	f := &stubFetcher{pages: leaguePages("https://npb.test")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(f, "https://npb.test").SearchPlayers(ctx, "")

	if !errors.Is(err, context.Canceled) {
		t.Errorf("SearchPlayers() error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("SearchPlayers() returned %d results, want nil", len(results))
	}
	if len(f.calls) != 0 {
		t.Errorf("SearchPlayers made %d fetches with canceled context, want 0", len(f.calls))
	}
}

func TestRosterTypeForTable(t *testing.T) {
	tests := []struct {
		index int
		want  player.RosterType
	}{
		{0, player.Registered},
		{1, player.Developmental},
		{2, player.Developmental},
	}

	for _, tt := range tests {
		if got := rosterTypeForTable(tt.index); got != tt.want {
			t.Errorf("rosterTypeForTable(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestExtractPlayerID(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/bis/players/11215114.html", "11215114"},
		{"https://npb.jp/bis/players/01505136.html", "01505136"},
		{"/bis/players/abc_123.html", "abc_123"},
		{"/bis/players/.html", ""},
		{"/bis/teams/index_g.html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			if got := extractPlayerID(tt.href); got != tt.want {
				t.Errorf("extractPlayerID(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"田中　将大", "田中 将大"},
		{"  菅野　　智之\n", "菅野 智之"},
		{"a \t\n b", "a b"},
		{"丸", "丸"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := collapseWhitespace(tt.input); got != tt.want {
				t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	s := New(fetch.NewClient(), "")

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.fetcher == nil {
		t.Error("scraper fetcher is nil")
	}
	if s.baseURL != BaseURL {
		t.Errorf("scraper baseURL = %q, want %q", s.baseURL, BaseURL)
	}
	if got := s.rosterURL("g"); got != "https://npb.jp/bis/teams/rst_g.html" {
		t.Errorf("rosterURL(g) = %q", got)
	}
	if got := s.playerURL("11215114"); got != "https://npb.jp/bis/players/11215114.html" {
		t.Errorf("playerURL(11215114) = %q", got)
	}
}
