package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/internal/config"
	"github.com/user/pinmsgpack/pkg/buffer"
	"github.com/user/pinmsgpack/pkg/msgpack"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a MessagePack file (or stdin) and print it as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := uuid.New()
		logger := pinmsgpack.NewDefaultLogger()
		logger.Info("decode session starting", "session_id", sessionID.String())

		v, err := decodeInput(args, loadedConfig(), logger)
		if err != nil {
			logger.Error("decode failed", "session_id", sessionID.String(), "error", err.Error())
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		out, err := v.ToJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

// decodeInput reads args[0] (or stdin) into a Buffer on a producer
// goroutine and decodes exactly one top-level value from it, the
// baseline usage pattern every msgpackcat subcommand shares.
func decodeInput(args []string, cfg *config.Config, logger pinmsgpack.Logger) (msgpack.Value, error) {
	data, err := readInput(args)
	if err != nil {
		return msgpack.Value{}, err
	}

	buf := buffer.NewBuffer(cfg.Buffer.PreserveData)
	buf.SetLogger(logger)
	go func() {
		buf.Write(data)
		buf.Close(true)
	}()

	dec := msgpack.New(buf,
		msgpack.WithLogger(logger),
		msgpack.WithForceMapKeysToString(cfg.Decoder.ForceMapKeysToString),
		msgpack.WithSkipDepthLimit(cfg.Decoder.SkipDepthLimit),
		msgpack.WithMaxStringLen(cfg.Decoder.MaxStringLen),
		msgpack.WithMaxBinaryLen(cfg.Decoder.MaxBinaryLen),
		msgpack.WithMaxArrayLen(cfg.Decoder.MaxArrayLen),
		msgpack.WithMaxMapLen(cfg.Decoder.MaxMapLen),
		msgpack.WithMaxInputLen(cfg.Decoder.MaxInputLen),
	)
	defer dec.Release()

	return dec.DecodeValue()
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}
