package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/ha1tch/stencil/pkg/codec"
	"github.com/ha1tch/stencil/pkg/container"
)

var encodeIDsCmd = &cobra.Command{
	Use:   "encode-ids",
	Short: "Encode a text file into a canonical container",
	RunE: func(cmd *cobra.Command, args []string) error {
		lexPath, _ := cmd.Flags().GetString("lex")
		inPath, _ := cmd.Flags().GetString("in")
		outPath, _ := cmd.Flags().GetString("out")
		dump, _ := cmd.Flags().GetInt("dump")
		return runEncodeIDs(resolveLexPath(lexPath), inPath, outPath, dump)
	},
}

func init() {
	encodeIDsCmd.Flags().String("lex", "", "lexicon artifact (text or binary)")
	encodeIDsCmd.Flags().String("in", "", "input text file")
	encodeIDsCmd.Flags().String("out", "", "output container file")
	encodeIDsCmd.Flags().Int("dump", 0, "print the first N token ids")
	mustMarkRequired(encodeIDsCmd, "in", "out")
	rootCmd.AddCommand(encodeIDsCmd)
}

func runEncodeIDs(lexPath, inPath, outPath string, dump int) error {
	lex, err := loadLexicon(lexPath)
	if err != nil {
		return err
	}
	data, err := readInput(inPath)
	if err != nil {
		return err
	}

	enc := codec.NewEncoder(lex)
	msg := enc.EncodeBytes(data)
	if n := enc.Extension().Len(); n > 0 {
		log.Warnf("%d atoms outside the lexicon: the container decodes only in-process", n)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return withCode(exitIO, err)
	}
	defer out.Close()
	if err := container.Write(out, msg); err != nil {
		return withCode(exitIO, err)
	}
	if err := out.Close(); err != nil {
		return withCode(exitIO, err)
	}

	st := enc.Stats()
	log.Infof("encoded %d bytes -> %d tokens, %d slots (%d template hits, %d literals)",
		len(data), len(msg.Tokens), len(msg.Slots), st.TemplateHits, st.LiteralEmits)

	if dump > 0 {
		if dump > len(msg.Tokens) {
			dump = len(msg.Tokens)
		}
		fmt.Println(msg.Tokens[:dump])
	}
	return nil
}
