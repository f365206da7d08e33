package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; the default marks dev builds.
var version = "0.1.0-dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the vex version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("vex", version)
		},
	}
}
