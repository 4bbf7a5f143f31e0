package root

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/dailyquestion"
	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Questions du jour déjà posées",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, cleanup, err := openBackend()
			if err != nil {
				return err
			}
			defer cleanup()

			r := dailyquestion.NewRotation(backend)
			if err := r.Load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			used := r.Used()
			fmt.Fprintf(out, "%d question(s) posée(s) sur %d\n", len(used), len(dailyquestion.DefaultQuestions))
			for _, q := range used {
				fmt.Fprintln(out, "- "+q)
			}
			return nil
		},
	}
}
