package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/user/pinmsgpack"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [file] [path]",
	Short: "Decode a MessagePack file and extract a value with a gjson path",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[1]
		logger := pinmsgpack.NewDefaultLogger()

		v, err := decodeInput(args[:1], loadedConfig(), logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		doc, err := v.ToJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		result := gjson.GetBytes(doc, path)
		if !result.Exists() {
			fmt.Fprintf(os.Stderr, "path %q not found\n", path)
			os.Exit(1)
		}
		fmt.Println(result.String())
	},
}
