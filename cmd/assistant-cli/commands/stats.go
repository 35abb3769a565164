package commands

import (
	"github.com/spf13/cobra"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-cli/ui"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/audit"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize routing decisions recorded in the audit store",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "number of recent events to list")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	out := ui.New(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Audit.Enabled {
		out.Warn("Audit persistence is disabled in the configuration")
		return nil
	}

	db, err := audit.Open(cfg.Audit.Driver, cfg.AuditDSN())
	if err != nil {
		return err
	}
	defer db.Close()
	store := audit.NewStore(db)

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	counts, err := store.CountByDecision(ctx)
	if err != nil {
		return err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	out.Info("Routing decisions (%d total)", total)
	for _, decision := range []string{"triggered", "retrieved", "no_answer"} {
		out.Plain("  %-10s %d", decision, counts[decision])
	}

	events, err := store.Recent(ctx, statsLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		out.Plain("No events recorded yet.")
		return nil
	}

	out.Info("Most recent %d event(s)", len(events))
	for _, e := range events {
		switch e.Decision {
		case "triggered":
			out.Success("  %s  %-10s trigger=%s  %q", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Decision, e.TriggerID, e.Query)
		case "retrieved":
			out.Plain("  %s  %-10s docs=%d  %q", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Decision, e.DocumentCount, e.Query)
		default:
			out.Warn("  %s  %-10s %q", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Decision, e.Query)
		}
	}
	return nil
}
