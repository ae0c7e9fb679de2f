package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"

	"github.com/ha1tch/stencil/pkg/atom"
	"github.com/ha1tch/stencil/pkg/codec"
	"github.com/ha1tch/stencil/pkg/container"
	"github.com/ha1tch/stencil/pkg/lexicon"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark atomize+encode on a file and verify losslessness",
	RunE: func(cmd *cobra.Command, args []string) error {
		lexPath, _ := cmd.Flags().GetString("lex")
		inPath, _ := cmd.Flags().GetString("in")
		return runBench(resolveLexPath(lexPath), inPath)
	},
}

func init() {
	benchCmd.Flags().String("lex", "", "lexicon artifact (default: compiled-in lexicon)")
	benchCmd.Flags().String("in", "", "input file")
	mustMarkRequired(benchCmd, "in")
	rootCmd.AddCommand(benchCmd)
}

func runBench(lexPath, inPath string) error {
	data, err := readInput(inPath)
	if err != nil {
		return err
	}

	var lex *lexicon.Lexicon
	if lexPath == "" {
		lex = lexicon.Default()
	} else {
		if lex, err = loadLexicon(lexPath); err != nil {
			return err
		}
	}

	start := time.Now()
	atoms := atom.Atomize(data, lex.Stopwords())
	enc := codec.NewEncoder(lex)
	msg := enc.Encode(atoms)
	elapsed := time.Since(start)

	st := enc.Stats()
	size := container.EncodedSize(msg)
	throughput := float64(len(data)) / elapsed.Seconds()
	stepsPerPos := 0.0
	if st.Positions > 0 {
		stepsPerPos = float64(st.TrieSteps) / float64(st.Positions)
	}
	ratio := 0.0
	if size > 0 {
		ratio = float64(len(data)) / float64(size)
	}

	fmt.Printf("input:          %12s\n", humanize.Bytes(uint64(len(data))))
	fmt.Printf("atoms:          %12d\n", len(atoms))
	fmt.Printf("tokens:         %12d\n", len(msg.Tokens))
	fmt.Printf("slots:          %12d\n", len(msg.Slots))
	fmt.Printf("container:      %12s\n", humanize.Bytes(uint64(size)))
	fmt.Printf("time:           %12v\n", elapsed.Round(time.Microsecond))
	fmt.Printf("throughput:     %12s/s\n", humanize.Bytes(uint64(throughput)))
	fmt.Printf("template hits:  %12d\n", st.TemplateHits)
	fmt.Printf("literal emits:  %12d\n", st.LiteralEmits)
	fmt.Printf("steps/position: %12.2f\n", stepsPerPos)
	fmt.Printf("ratio:          %11.2fx\n", ratio)

	// Determinism digest plus lossless check: the same input must produce
	// the same container and decode back to itself.
	var buf bytes.Buffer
	if err := container.Write(&buf, msg); err != nil {
		return withCode(exitIO, err)
	}
	sum := xxh3.Hash128(buf.Bytes())
	fmt.Printf("container xxh3: %016x%016x\n", sum.Hi, sum.Lo)

	dec := codec.NewDecoder(lex)
	dec.UseExtension(enc.Extension())
	decoded, err := dec.Decode(msg)
	if err != nil {
		return withCode(exitInput, err)
	}
	if !bytes.Equal(decoded, data) {
		return withCode(exitVerify,
			fmt.Errorf("lossless check failed at byte offset %d", firstMismatch(data, decoded)))
	}
	fmt.Println("lossless:       ok")
	return nil
}
