package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/glyphloader/internal/ai"
)

func newModelsCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Check the configured model provider and list its models",
		Long: `Connect to the configured model provider, report whether it is reachable
and list the models it serves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()
			out := cmd.OutOrStdout()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			registry, err := newRegistry()
			if err != nil {
				return err
			}
			defer func() { _ = registry.Close() }()

			provider, err := createProvider(registry, &cfg.Model)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Provider: %s\n", provider.Name())
			fmt.Fprintf(out, "Model:    %s\n", cfg.Model.Model)

			if err := provider.HealthCheck(ctx); err != nil {
				fmt.Fprintf(out, "Status:   unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintln(out, "Status:   reachable")

			lister, ok := provider.(ai.ModelLister)
			if !ok {
				return nil
			}
			models, err := lister.ListModels(ctx)
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			fmt.Fprintf(out, "\nAvailable models (%d):\n", len(models))
			for _, m := range models {
				marker := " "
				if m.ID == cfg.Model.Model {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %s\n", marker, m.ID)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connection timeout")

	return cmd
}
