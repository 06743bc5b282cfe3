package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/npb-mcp/internal/config"
	"github.com/pfrederiksen/npb-mcp/internal/fetch"
	"github.com/pfrederiksen/npb-mcp/internal/logger"
	"github.com/pfrederiksen/npb-mcp/internal/player"
	"github.com/pfrederiksen/npb-mcp/internal/scraper"
	"github.com/pfrederiksen/npb-mcp/internal/team"
	"github.com/pfrederiksen/npb-mcp/internal/tools"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagBaseURL           string
	flagFormat            string
	flagVerbose           bool
	flagLeague            string
	flagRegisteredOnly    bool
	flagDevelopmentalOnly bool
	flagHTTPAddr          string
	flagMCPPath           string
)

// app holds what every subcommand needs once config is loaded
type app struct {
	cfg     *config.Config
	scraper *scraper.Scraper
	format  OutputFormat
}

var current *app

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "npb-mcp",
		Short: "Query NPB team rosters and player profiles",
		Long: `Query Japanese professional baseball (NPB) rosters, player profiles,
and cross-team player search from npb.jp. Run "npb-mcp serve" to expose
the same queries as MCP tools.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	cmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Override the npb.jp base URL (env: NPB_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics to stderr")

	cmd.AddCommand(
		newServeCmd(),
		newTeamsCmd(),
		newRosterCmd(),
		newPlayerCmd(),
		newSearchCmd(),
	)

	return cmd
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	level := cfg.Level()
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.HTTPTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	current = &app{
		cfg:     cfg,
		scraper: scraper.New(client, cfg.BaseURL),
		format:  format,
	}

	logger.Debug("Configuration loaded", logger.Fields{
		"base_url": cfg.BaseURL,
		"timeout":  cfg.HTTPTimeout.String(),
		"format":   string(format),
	})
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if !flagVerbose {
		return nil
	}
	enc := json.NewEncoder(cmd.ErrOrStderr())
	enc.SetIndent("", "  ")
	return enc.Encode(logger.GetMetricsSnapshot())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio by default, streamable HTTP with --http)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Listen address for streamable HTTP (env: NPB_HTTP_ADDR)")
	cmd.Flags().StringVar(&flagMCPPath, "path", "", "HTTP path for the MCP endpoint (env: NPB_MCP_PATH)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	server := tools.NewServer(current.scraper)

	addr := current.cfg.HTTPAddr
	if flagHTTPAddr != "" {
		addr = flagHTTPAddr
	}
	path := current.cfg.MCPPath
	if flagMCPPath != "" {
		path = flagMCPPath
	}

	if addr == "" {
		logger.Info("Serving MCP over stdio", logger.Fields{"base_url": current.cfg.BaseURL})
		if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
			return fmt.Errorf("running stdio server: %w", err)
		}
		return nil
	}

	return serveHTTP(cmd.Context(), server, addr, path)
}

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List the 12 NPB teams and their codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams := team.All()
			if flagLeague != "" {
				league, err := team.ParseLeague(flagLeague)
				if err != nil {
					return err
				}
				teams = team.ByLeague(league)
			}
			return WriteTeams(cmd.OutOrStdout(), teams, current.format)
		},
	}
	cmd.Flags().StringVar(&flagLeague, "league", "", "Only show one league: central or pacific")
	return cmd
}

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster TEAM_CODE",
		Short: "Show a team's roster",
		Long:  "Show a team's roster. Team codes: " + strings.Join(team.Codes(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			players, err := current.scraper.TeamRoster(cmd.Context(), code)
			if err != nil {
				return err
			}

			switch {
			case flagRegisteredOnly:
				players = player.FilterRosterType(players, player.Registered)
			case flagDevelopmentalOnly:
				players = player.FilterRosterType(players, player.Developmental)
			}

			t, _ := team.ByCode(code)
			return WriteRoster(cmd.OutOrStdout(), t, players, current.format)
		},
	}
	cmd.Flags().BoolVar(&flagRegisteredOnly, "registered-only", false, "Only show registered (支配下) players")
	cmd.Flags().BoolVar(&flagDevelopmentalOnly, "developmental-only", false, "Only show developmental (育成) players")
	cmd.MarkFlagsMutuallyExclusive("registered-only", "developmental-only")
	return cmd
}

func newPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player PLAYER_ID",
		Short: "Show a player's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := current.scraper.PlayerDetail(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return WriteDetail(cmd.OutOrStdout(), detail, current.format)
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search every team's roster by player name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := current.scraper.SearchPlayers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteSearch(cmd.OutOrStdout(), args[0], results, current.format)
		},
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
