package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/pinmsgpack/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "msgpackcat",
	Short: "msgpackcat decodes MessagePack streams",
	Long:  `A developer-focused terminal tool for decoding, querying, and benchmarking MessagePack input against pkg/msgpack.`,
}

// Execute runs the root command, matching the teacher's cmd/hermodctl
// entry point shape.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.msgpackcat.yaml)")
	rootCmd.PersistentFlags().Bool("preserve-data", false, "retain every byte written to the buffer for debugging")
	rootCmd.PersistentFlags().Bool("force-map-keys-to-string", false, "render non-string map keys as their decimal/string form")

	viper.BindPFlag("buffer.preserve_data", rootCmd.PersistentFlags().Lookup("preserve-data"))
	viper.BindPFlag("decoder.force_map_keys_to_string", rootCmd.PersistentFlags().Lookup("force-map-keys-to-string"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".msgpackcat")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadedConfig returns the CLI's effective configuration: viper's
// bound flags/env layered over the decoder/buffer defaults.
func loadedConfig() *config.Config {
	cfg := config.Default()
	cfg.Buffer.PreserveData = viper.GetBool("buffer.preserve_data")
	cfg.Decoder.ForceMapKeysToString = viper.GetBool("decoder.force_map_keys_to_string")
	return cfg
}
