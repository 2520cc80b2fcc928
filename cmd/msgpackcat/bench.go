package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/pinmsgpack"
	"github.com/user/pinmsgpack/internal/config"
	"github.com/user/pinmsgpack/pkg/buffer"
	"github.com/user/pinmsgpack/pkg/msgpack"
)

var benchDuration int

var benchCmd = &cobra.Command{
	Use:   "bench [file]",
	Short: "Benchmark decode throughput against a MessagePack file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Printf("Benchmarking decode of %s for %d seconds...\n", args[0], benchDuration)

		logger := pinmsgpack.NewDefaultLogger()
		cfg := loadedConfig()

		start := time.Now()
		count := 0
		errCount := 0
		var totalLat time.Duration

		timeout := time.After(time.Duration(benchDuration) * time.Second)

	loop:
		for {
			select {
			case <-timeout:
				break loop
			default:
				iterStart := time.Now()
				_, err := decodeBytes(data, cfg, logger)
				lat := time.Since(iterStart)

				if err != nil {
					errCount++
				} else {
					count++
					totalLat += lat
				}
			}
		}

		elapsed := time.Since(start)
		fmt.Printf("\nBenchmark Results:\n")
		fmt.Printf("  Total Decodes:  %d\n", count+errCount)
		fmt.Printf("  Successful:     %d\n", count)
		fmt.Printf("  Failed:         %d\n", errCount)
		fmt.Printf("  Duration:       %v\n", elapsed)
		fmt.Printf("  Throughput:     %.2f decodes/s\n", float64(count)/elapsed.Seconds())
		if count > 0 {
			fmt.Printf("  Avg Latency:    %v\n", totalLat/time.Duration(count))
		}
	},
}

// decodeBytes runs data through a fresh Buffer+Decoder pair, the same
// pattern decodeInput uses, without the file/stdin indirection so bench
// can reuse the already-loaded bytes on every iteration.
func decodeBytes(data []byte, cfg *config.Config, logger pinmsgpack.Logger) (msgpack.Value, error) {
	buf := buffer.NewBuffer(cfg.Buffer.PreserveData)
	go func() {
		buf.Write(data)
		buf.Close(true)
	}()

	dec := msgpack.New(buf,
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

func init() {
	benchCmd.Flags().IntVarP(&benchDuration, "duration", "d", 10, "Duration of benchmark in seconds")
	rootCmd.AddCommand(benchCmd)
}
