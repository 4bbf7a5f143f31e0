package root

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
	"github.com/spf13/cobra"
)

func openPoller(ctx context.Context) (*tiktok.Poller, func(), error) {
	backend, cleanup, err := openBackend()
	if err != nil {
		return nil, nil, err
	}
	p := tiktok.NewPoller(backend, tiktok.DisabledFetcher{}, nil, tiktok.DefaultInterval, tiktok.DefaultDelay)
	if err := p.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func newTikTokCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiktok",
		Short: "Comptes TikTok suivis",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Comptes suivis et intervalle de vérification",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, cleanup, err := openPoller(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Intervalle: %s\n", p.Interval())
				for _, acc := range p.Accounts() {
					fmt.Fprintf(out, "- %s  @%s\n", acc.UserID, acc.Username)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <user>",
			Short: "Arrête de suivre le compte d'un membre",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, cleanup, err := openPoller(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				name, ok, err := p.RemoveAccount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aucun compte TikTok pour ce membre.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ @%s n'est plus suivi.\n", name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "interval <seconds>",
			Short: "Change l'intervalle de vérification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				secs, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("intervalle invalide: %q", args[0])
				}
				p, cleanup, err := openPoller(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				if err := p.SetInterval(cmd.Context(), time.Duration(secs)*time.Second); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Intervalle: %s\n", p.Interval())
				return nil
			},
		},
	)
	return cmd
}
