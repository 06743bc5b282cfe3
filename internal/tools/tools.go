// Package tools exposes the scraper as MCP tools.
//
// Every tool returns plain text. Failures are reported as tool results with
// IsError set, never as protocol errors.
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pfrederiksen/npb-mcp/internal/logger"
	"github.com/pfrederiksen/npb-mcp/internal/player"
	"github.com/pfrederiksen/npb-mcp/internal/team"
)

const (
	ServerName    = "npb-mcp"
	ServerVersion = "1.0.0"
)

// Service is the query surface the tools call
type Service interface {
	TeamRoster(ctx context.Context, code string) ([]player.Summary, error)
	PlayerDetail(ctx context.Context, id string) (player.Detail, error)
	SearchPlayers(ctx context.Context, query string) ([]player.Summary, error)
}

type ListTeamsArgs struct{}

type TeamRosterArgs struct {
	TeamCode string `json:"team_code" jsonschema:"球団コード (g, t, db, c, s, d, h, f, m, e, b, l)"`
}

type PlayerDetailArgs struct {
	PlayerID string `json:"player_id" jsonschema:"選手ID（例: 11215114）"`
}

type SearchPlayersArgs struct {
	Query string `json:"query" jsonschema:"検索する選手名（部分一致）"`
}

// NewServer creates an MCP server with every tool registered
func NewServer(svc Service) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	Register(server, svc)
	return server
}

// Register adds the four NPB tools to server
func Register(server *mcp.Server, svc Service) {
	h := &handlers{svc: svc}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_teams",
		Description: "NPB全12球団の一覧を取得します",
	}, h.listTeams)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_team_roster",
		Description: "指定した球団の選手一覧を取得します（所属、選手名、背番号、ポジション等）",
	}, h.teamRoster)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_player_detail",
		Description: "選手の詳細情報（フルネーム、ふりがな、所属球団、背番号）を取得します",
	}, h.playerDetail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_players",
		Description: "選手名で検索します（全球団を横断検索）",
	}, h.searchPlayers)
}

type handlers struct {
	svc Service
}

func (h *handlers) listTeams(ctx context.Context, req *mcp.CallToolRequest, args ListTeamsArgs) (*mcp.CallToolResult, any, error) {
	logger.IncrCounter("tools.list_teams")

	var b strings.Builder
	if err := player.WriteTeams(&b, team.All()); err != nil {
		return toolError("list_teams", err), nil, nil
	}
	return toolText(b.String()), nil, nil
}

func (h *handlers) teamRoster(ctx context.Context, req *mcp.CallToolRequest, args TeamRosterArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	logger.IncrCounter("tools.get_team_roster")

	players, err := h.svc.TeamRoster(ctx, args.TeamCode)
	if err != nil {
		return toolError("get_team_roster", err), nil, nil
	}

	// TeamRoster has already rejected unknown codes
	t, _ := team.ByCode(args.TeamCode)

	var b strings.Builder
	if err := player.WriteRoster(&b, t.Name, players); err != nil {
		return toolError("get_team_roster", err), nil, nil
	}

	logger.Info("Roster served", logger.Fields{
		"team_code": args.TeamCode,
		"players":   len(players),
		"duration":  time.Since(start).String(),
	})
	return toolText(b.String()), nil, nil
}

func (h *handlers) playerDetail(ctx context.Context, req *mcp.CallToolRequest, args PlayerDetailArgs) (*mcp.CallToolResult, any, error) {
	logger.IncrCounter("tools.get_player_detail")

	detail, err := h.svc.PlayerDetail(ctx, args.PlayerID)
	if err != nil {
		return toolError("get_player_detail", err), nil, nil
	}

	var b strings.Builder
	if err := player.WriteDetail(&b, detail); err != nil {
		return toolError("get_player_detail", err), nil, nil
	}
	return toolText(b.String()), nil, nil
}

func (h *handlers) searchPlayers(ctx context.Context, req *mcp.CallToolRequest, args SearchPlayersArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	logger.IncrCounter("tools.search_players")

	results, err := h.svc.SearchPlayers(ctx, args.Query)
	if err != nil {
		return toolError("search_players", err), nil, nil
	}

	var b strings.Builder
	if err := player.WriteSearch(&b, args.Query, results); err != nil {
		return toolError("search_players", err), nil, nil
	}

	logger.Info("Search served", logger.Fields{
		"query":    args.Query,
		"results":  len(results),
		"duration": time.Since(start).String(),
	})
	return toolText(b.String()), nil, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.TrimRight(text, "\n")},
		},
	}
}

func toolError(tool string, err error) *mcp.CallToolResult {
	logger.IncrCounter("tools.errors")
	logger.Error("Tool call failed", logger.Fields{"tool": tool}, err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("エラー: %v", err)},
		},
	}
}
