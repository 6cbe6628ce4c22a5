package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/seobrain/internal/app"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API and the optimization scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Migrate()
			})
		},
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <campaign-id>",
		Short: "Generate city pages for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("campaign id", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Services.Campaigns.Run(ctx, id)
				if res != nil {
					if werr := writeJSON(cmd.OutOrStdout(), res); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "analyze <campaign-id>",
		Short: "Extract a winner pattern from the top-revenue pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("campaign id", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Services.Winners.Analyze(ctx, id, top)
				if err != nil {
					return err
				}
				if !res.Found {
					fmt.Fprintln(cmd.OutOrStdout(), "no pages to analyze")
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), res.Pattern)
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", winners.DefaultTopCount, "number of top-revenue pages to analyze")
	return cmd
}

func newImproveCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "improve <page-id>",
		Short: "Propose an improvement plan for a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parseID("page id", args[0])
			if err != nil {
				return err
			}
			var patternID *uuid.UUID
			if pattern != "" {
				pid, err := parseID("pattern id", pattern)
				if err != nil {
					return err
				}
				patternID = &pid
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				plan, err := a.Services.Improver.Propose(ctx, pageID, patternID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), plan)
			})
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "winner pattern id (defaults to the campaign's latest)")
	return cmd
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <plan-id> <A|B|C>",
		Short: "Record a decision and execute the chosen option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("plan id", args[0])
			if err != nil {
				return err
			}
			option, err := parseOption(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				plan, report, err := a.Services.Improver.Select(ctx, planID, option)
				if plan != nil {
					out := map[string]any{"plan": plan, "report": report}
					if werr := writeJSON(cmd.OutOrStdout(), out); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate <pattern>",
		Short: `Delete cache entries matching a glob, e.g. "ollama:*"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n := a.Clients.Cache.Invalidate(ctx, args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
				return nil
			})
		},
	})
	return cmd
}

func parseID(what, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", what, raw, err)
	}
	return id, nil
}

func parseOption(raw string) (string, error) {
	opt := strings.ToUpper(strings.TrimSpace(raw))
	switch opt {
	case "A", "B", "C":
		return opt, nil
	}
	return "", fmt.Errorf("invalid option %q (allowed: A, B, C)", raw)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
