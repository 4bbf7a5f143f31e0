package root

import (
	"fmt"
	"os"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chiictl",
	Short: "Outils d'administration de ChiiBot",
	Long: "chiictl lit et modifie les données persistées de ChiiBot (niveaux, avertissements, TikTok, questions).\n" +
		"Les commandes qui écrivent doivent être lancées bot arrêté.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	rootCmd.Version = config.Version
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.AddCommand(
		newLevelsCmd(),
		newWarningsCmd(),
		newTikTokCmd(),
		newQuestionsCmd(),
		newStatusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌ "+err.Error())
		os.Exit(1)
	}
}
