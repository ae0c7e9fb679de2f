package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/ha1tch/stencil/pkg/codec"
	"github.com/ha1tch/stencil/pkg/container"
)

var decodeIDsCmd = &cobra.Command{
	Use:   "decode-ids",
	Short: "Decode a canonical container back to the original bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		lexPath, _ := cmd.Flags().GetString("lex")
		inPath, _ := cmd.Flags().GetString("in")
		outPath, _ := cmd.Flags().GetString("out")
		return runDecodeIDs(resolveLexPath(lexPath), inPath, outPath)
	},
}

func init() {
	decodeIDsCmd.Flags().String("lex", "", "lexicon artifact (text or binary)")
	decodeIDsCmd.Flags().String("in", "", "input container file")
	decodeIDsCmd.Flags().String("out", "", "output text file")
	mustMarkRequired(decodeIDsCmd, "in", "out")
	rootCmd.AddCommand(decodeIDsCmd)
}

func runDecodeIDs(lexPath, inPath, outPath string) error {
	lex, err := loadLexicon(lexPath)
	if err != nil {
		return err
	}
	data, err := readInput(inPath)
	if err != nil {
		return err
	}

	msg, err := container.Decode(data)
	if err != nil {
		return withCode(exitInput, err)
	}
	text, err := codec.NewDecoder(lex).Decode(msg)
	if err != nil {
		return withCode(exitInput, err)
	}

	if err := writeOutput(outPath, text); err != nil {
		return err
	}
	log.Infof("decoded %d tokens, %d slots -> %d bytes", len(msg.Tokens), len(msg.Slots), len(text))
	return nil
}
