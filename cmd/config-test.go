package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kneescan/vag-analyzer/configs"
	"github.com/kneescan/vag-analyzer/pkg/output"
)

// configTestCmd is a debug command: it prints the fully resolved
// configuration after defaults, config file and environment merge
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadConfig()
		if err != nil {
			return err
		}
		if err := config.Validate(); err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}

		formatted, err := output.NewFormatter("yaml").Format(config, true)
		if err != nil {
			return err
		}

		fmt.Print(string(formatted))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configTestCmd)
}
