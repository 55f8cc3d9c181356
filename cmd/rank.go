package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/query"
	"github.com/spigell/candidate-matcher/internal/scoring"
)

var rankCmd = &cobra.Command{
	Use:   "rank QUERY",
	Short: "Rank candidates for a query and print the score breakdown",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, config := setup()
		limit, _ := cmd.Flags().GetInt("limit")

		directory := newDirectory(config, logger)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		merged := candidates.Merge(directory.Profiles(ctx), directory.Availability(ctx))
		raw := strings.Join(args, " ")

		logger.Info("ranking candidates", zap.String("query", raw), zap.Int("candidates", len(merged)))

		printRanking(cmd.OutOrStdout(), merged, raw, time.Now(), limit)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntP("limit", "n", 10, "how many candidates to print")
}

func printRanking(out io.Writer, merged []candidates.Candidate, raw string, asOf time.Time, limit int) {
	cons := query.Parse(raw)
	ranked := scoring.Rank(merged, cons, raw, asOf)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	fmt.Fprintf(out, "skills: %s\nexperience: %s\ndomain: %s\n\n",
		strings.Join(cons.Skills, ", "), orUnspecified(string(cons.Experience)), orUnspecified(string(cons.Domain)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSCORE\tSKILLS\tEXPERIENCE\tAVAILABILITY\tDOMAIN\tTEAM")
	for i := range ranked {
		b := scoring.Explain(&ranked[i].Candidate, cons, raw, asOf)
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
			i+1, ranked[i].DisplayName, ranked[i].Score, b.Skills, b.Experience, b.Availability, b.Domain, b.TeamFit)
	}
	w.Flush()

	for i := range ranked {
		b := scoring.Explain(&ranked[i].Candidate, cons, raw, asOf)
		fmt.Fprintf(out, "\n%s:\n", ranked[i].DisplayName)
		for _, reason := range b.Reasons {
			fmt.Fprintf(out, "  - %s\n", reason)
		}
	}
}

func orUnspecified(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
