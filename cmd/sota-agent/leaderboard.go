// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-agent/internal/leaderboard"
	"github.com/pdiddy/sota-agent/pkg/types"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Query the leaderboard and render reports",
	Long: `Leaderboard works with the entries database built by analyze. Use
subcommands to render CSV and Markdown reports, print the current ranking,
or search entries by full text.`,
}

// --- report subcommand ---

var leaderboardReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render leaderboard.csv and leaderboard.md",
	RunE:  runLeaderboardReport,
}

func runLeaderboardReport(cmd *cobra.Command, args []string) error {
	store, cfg, err := openLeaderboard()
	if err != nil {
		return err
	}
	defer store.Close()

	return store.BuildReports(context.Background(), cfg, os.Stdout)
}

// --- top subcommand ---

var leaderboardTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the current ranking",
	RunE:  runLeaderboardTop,
}

func runLeaderboardTop(cmd *cobra.Command, args []string) error {
	store, _, err := openLeaderboard()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Top(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(entries, jsonOutput)
}

// --- search subcommand ---

var leaderboardSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, methods, and evidence",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLeaderboardSearch,
}

func runLeaderboardSearch(cmd *cobra.Command, args []string) error {
	store, _, err := openLeaderboard()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(entries, jsonOutput)
}

// --- shared helpers ---

func openLeaderboard() (*leaderboard.Store, types.LeaderboardConfig, error) {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return nil, types.LeaderboardConfig{}, err
	}
	store, err := leaderboard.NewStore(cfg.Leaderboard)
	if err != nil {
		return nil, types.LeaderboardConfig{}, err
	}
	return store, cfg.Leaderboard, nil
}

func formatEntries(entries []types.SOTAEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-16s  %-8s  %s\n",
		"Rank", "Method", "Pipeline", "Metric", "arXiv")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))

	for i, e := range entries {
		method := e.Method
		if len(method) > 24 {
			method = method[:21] + "..."
		}
		pipeline := e.Pipeline
		if len(pipeline) > 16 {
			pipeline = pipeline[:13] + "..."
		}
		metric := "-"
		if e.HasMetric() {
			metric = fmt.Sprintf("%.4f", e.MetricValue)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-16s  %-8s  %s\n",
			i+1, method, pipeline, metric, e.ArxivID)
	}

	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func init() {
	leaderboardTopCmd.Flags().Int("limit", 0, "maximum entries (0 = use default)")
	leaderboardTopCmd.Flags().Bool("json", false, "output entries as JSON")
	leaderboardSearchCmd.Flags().Int("limit", 0, "maximum entries (0 = use default)")
	leaderboardSearchCmd.Flags().Bool("json", false, "output entries as JSON")

	leaderboardCmd.AddCommand(leaderboardReportCmd)
	leaderboardCmd.AddCommand(leaderboardTopCmd)
	leaderboardCmd.AddCommand(leaderboardSearchCmd)

	rootCmd.AddCommand(leaderboardCmd)
}
