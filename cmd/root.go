package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transmem",
	Short: "translation memory engine",
	Example: `transmem serve
transmem project create -n <name> -s en -t fr
transmem file add -p <project-id> -f <path>
transmem tm create -n <name> -k main -s en -t fr
transmem tm mount -p <project-id> -m <tm-id> -r 1 -w
transmem tm matches -p <project-id> -g <segment-id>
transmem tm commit -m <tm-id> -f <file-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(serveCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
