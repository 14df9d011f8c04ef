package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripdesk/intentcore/internal/initialization"
	"github.com/tripdesk/intentcore/internal/service"
)

func NewClassifyCommand() *cobra.Command {
	var sessionID string
	var language string

	cmd := &cobra.Command{
		Use:   "classify [utterance]",
		Short: "Classify a single utterance and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), strings.Join(args, " "), sessionID, language)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to thread conversation context through")
	cmd.Flags().StringVar(&language, "language", "", "Language hint for the embedding provider")

	return cmd
}

func runClassify(ctx context.Context, text, sessionID, language string) error {
	config, err := initialization.LoadConfig()
	if err != nil {
		return err
	}

	deps, err := initialization.BuildDependencies(config)
	if err != nil {
		return err
	}

	if err := deps.Catalog.EnsureAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: embedding warm-up incomplete: %v\n", err)
	}

	out, err := deps.ClassificationService.Classify(ctx, service.ClassifyParams{
		SessionID: sessionID,
		Text:      text,
		Language:  language,
	})
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(out.Result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
