package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tripdesk/intentcore/internal/initialization"
)

func NewWarmupCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Compute example embeddings for every catalog intent",
		Long:  `Compute and cache the example embedding matrix for every intent in the catalog. With --force, already cached vectors are recomputed from scratch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := initialization.LoadConfig()
			if err != nil {
				return err
			}

			deps, err := initialization.BuildDependencies(config)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if force {
				err = deps.Catalog.ForceRegenerate(ctx)
			} else {
				err = deps.Catalog.EnsureAll(ctx)
			}
			if err != nil {
				return err
			}

			log.Info().Int("intents", deps.Catalog.Len()).Msg("Embedding cache warm")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Recompute vectors that are already cached")

	return cmd
}
