package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/spf13/cobra"
)

func openLevels(ctx context.Context) (*leveling.Service, func(), error) {
	backend, cleanup, err := openBackend()
	if err != nil {
		return nil, nil, err
	}
	svc := leveling.NewService(backend)
	if err := svc.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Niveaux et XP des membres",
	}
	cmd.AddCommand(newLevelsTopCmd(), newLevelsSetCmd(), newLevelsResetCmd())
	return cmd
}

func newLevelsTopCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top <guild>",
		Short: "Classement XP d'un serveur",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openLevels(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			entries := svc.Leaderboard(args[0], limit)
			if len(entries) == 0 {
				fmt.Fprintln(out, "Aucune donnée de niveau pour ce serveur.")
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(out, "%2d. %s  niveau %d  (%d XP)\n", i+1, e.UserID, e.Level, e.XP)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "nombre de membres affichés")
	return cmd
}

func newLevelsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <guild> <user> <xp>",
		Short: "Fixe l'XP d'un membre",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := strconv.Atoi(args[2])
			if err != nil || xp < 0 {
				return fmt.Errorf("xp invalide: %q", args[2])
			}
			svc, cleanup, err := openLevels(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetXP(cmd.Context(), args[0], args[1], xp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %d XP (niveau %d)\n", args[1], xp, leveling.LevelForXP(xp))
			return nil
		},
	}
}

func newLevelsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <guild> <user>",
		Short: "Remet à zéro l'XP d'un membre",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openLevels(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := svc.Reset(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Ce membre n'a pas d'XP.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ XP de %s remise à zéro.\n", args[1])
			return nil
		},
	}
}
