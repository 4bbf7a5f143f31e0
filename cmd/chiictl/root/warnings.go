package root

import (
	"context"
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/spf13/cobra"
)

func openLedger(ctx context.Context) (*moderation.Ledger, func(), error) {
	backend, cleanup, err := openBackend()
	if err != nil {
		return nil, nil, err
	}
	ledger := moderation.NewLedger(backend)
	if err := ledger.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return ledger, cleanup, nil
}

func newWarningsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "warnings",
		Aliases: []string{"warns"},
		Short:   "Avertissements du filtre anti-lien et des modérateurs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <guild>",
			Short: "Membres avertis d'un serveur",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ledger, cleanup, err := openLedger(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				out := cmd.OutOrStdout()
				rows := ledger.List(args[0])
				if len(rows) == 0 {
					fmt.Fprintln(out, "Aucun avertissement enregistré.")
					return nil
				}
				for _, row := range rows {
					banned := ""
					if row.Record.Banned {
						banned = " (banni)"
					}
					fmt.Fprintf(out, "%s: %d avertissement(s)%s\n", row.UserID, row.Record.Count, banned)
					for _, e := range row.Record.Entries {
						fmt.Fprintf(out, "  - %s  %s\n", e.ID, e.Reason)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <guild> <user>",
			Short: "Efface les avertissements d'un membre",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ledger, cleanup, err := openLedger(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				ok, err := ledger.Clear(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Ce membre n'a aucun avertissement.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Avertissements de %s effacés.\n", args[1])
				return nil
			},
		},
	)
	return cmd
}
