package root

import (
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Demande son état au bot en cours d'exécution (MQTT)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Get().SetMinLevel(logger.LevelWarn)

			client := mqtt.Connect(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, "chiictl")
			defer client.Close()

			data, err := client.Request("status", nil, timeout)
			if err != nil {
				return fmt.Errorf("le bot ne répond pas: %w", err)
			}
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "délai d'attente de la réponse")
	return cmd
}
