package commands

import (
	"github.com/spf13/cobra"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-cli/ui"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/catalog"
	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/internal/trigger"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog-file]",
	Short: "Load a catalog file and report documents, triggers, and warnings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := ui.New(noColor)

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Catalog.Path
	}

	root, err := catalog.LoadFile(path)
	if err != nil {
		out.Error("Catalog failed to load: %v", err)
		return err
	}

	result, err := catalog.Walk(root)
	if err != nil {
		out.Error("Catalog failed validation: %v", err)
		return err
	}

	index := trigger.NewIndex(result.Triggers)

	out.Success("Catalog %s is valid", path)
	out.Plain("  documents: %d", len(result.Documents))
	out.Plain("  triggers:  %d", len(result.Triggers))
	out.Plain("  keywords:  %d", index.Keywords())

	if verbose {
		for _, rec := range result.Triggers {
			out.Info("  trigger %s (node %s): %d keywords", rec.ID, rec.NodeID, len(rec.Keywords))
		}
	}

	for _, w := range result.Warnings {
		out.Warn("node %s: %s", w.NodeID, w.Message)
	}
	if shared := index.SharedKeywords(); len(shared) > 0 {
		out.Warn("keywords claimed by multiple triggers: %v", shared)
	}

	if len(result.Warnings) > 0 {
		out.Plain("%d warning(s); unreachable triggers will never fire", len(result.Warnings))
	}
	return nil
}
