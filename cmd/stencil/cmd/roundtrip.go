package cmd

import (
	"bytes"
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/ha1tch/stencil/pkg/codec"
	"github.com/ha1tch/stencil/pkg/container"
)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Verify decode(encode(FILE)) == FILE through the container",
	RunE: func(cmd *cobra.Command, args []string) error {
		lexPath, _ := cmd.Flags().GetString("lex")
		inPath, _ := cmd.Flags().GetString("in")
		return runRoundtrip(resolveLexPath(lexPath), inPath)
	},
}

func init() {
	roundtripCmd.Flags().String("lex", "", "lexicon artifact (text or binary)")
	roundtripCmd.Flags().String("in", "", "input text file")
	mustMarkRequired(roundtripCmd, "in")
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundtrip(lexPath, inPath string) error {
	lex, err := loadLexicon(lexPath)
	if err != nil {
		return err
	}
	original, err := readInput(inPath)
	if err != nil {
		return err
	}

	enc := codec.NewEncoder(lex)
	msg := enc.EncodeBytes(original)

	// The container is exercised in memory so the verification covers the
	// full pipeline, not just the matcher.
	var buf bytes.Buffer
	if err := container.Write(&buf, msg); err != nil {
		return withCode(exitIO, err)
	}
	parsed, err := container.Decode(buf.Bytes())
	if err != nil {
		return withCode(exitInput, err)
	}

	dec := codec.NewDecoder(lex)
	dec.UseExtension(enc.Extension())
	decoded, err := dec.Decode(parsed)
	if err != nil {
		return withCode(exitInput, err)
	}

	if !bytes.Equal(decoded, original) {
		return withCode(exitVerify,
			fmt.Errorf("round trip failed at byte offset %d", firstMismatch(original, decoded)))
	}
	log.Infof("OK: %d bytes, %d tokens, %d slots, container %d bytes",
		len(original), len(msg.Tokens), len(msg.Slots), buf.Len())
	return nil
}
