package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validatorsConfigPath string

var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "List registered validators",
	Long: `List every validator registered with the engine, with its version
and the content types it supports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(validatorsConfigPath)
		if err != nil {
			return err
		}

		eng, err := createEngine(cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		infos := eng.RegisteredValidators()
		if len(infos) == 0 {
			fmt.Println("no validators registered")
			return nil
		}

		for _, info := range infos {
			fmt.Printf("%-16s %-8s %s\n", info.ID, info.Version, strings.Join(info.SupportedTypes, ", "))
		}
		return nil
	},
}

func init() {
	validatorsCmd.Flags().StringVar(&validatorsConfigPath, "config", "", "Path to a config file (overrides discovery)")
}
