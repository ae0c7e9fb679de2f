package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"

	"github.com/ha1tch/stencil/pkg/lexicon"
)

var lexCmd = &cobra.Command{
	Use:   "lex",
	Short: "Lexicon artifact tools",
}

var lexConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a text lexicon to the binary image",
	Long: `Convert reads the text JSON form and writes the binary image.
The conversion is deterministic: the same text artifact always produces a
byte-identical binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, _ := cmd.Flags().GetString("in")
		outPath, _ := cmd.Flags().GetString("out")
		return runLexConvert(inPath, outPath)
	},
}

var lexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print lexicon artifact statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		lexPath, _ := cmd.Flags().GetString("lex")
		return runLexInfo(resolveLexPath(lexPath))
	},
}

func init() {
	lexConvertCmd.Flags().String("in", "", "text lexicon file")
	lexConvertCmd.Flags().String("out", "", "output binary image")
	mustMarkRequired(lexConvertCmd, "in", "out")

	lexInfoCmd.Flags().String("lex", "", "lexicon artifact (text or binary)")

	lexCmd.AddCommand(lexConvertCmd)
	lexCmd.AddCommand(lexInfoCmd)
	rootCmd.AddCommand(lexCmd)
}

func runLexConvert(inPath, outPath string) error {
	data, err := readInput(inPath)
	if err != nil {
		return err
	}
	lex, err := lexicon.LoadText(bytes.NewReader(data))
	if err != nil {
		return withCode(exitLexicon, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return withCode(exitIO, err)
	}
	defer out.Close()
	if err := lex.WriteBinary(out); err != nil {
		return withCode(exitIO, err)
	}
	if err := out.Close(); err != nil {
		return withCode(exitIO, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return withCode(exitIO, err)
	}
	log.Infof("converted %d atoms, %d templates -> %s (%s)",
		lex.AtomCount(), lex.TemplateCount(), outPath, humanize.Bytes(uint64(info.Size())))
	return nil
}

func runLexInfo(lexPath string) error {
	if lexPath == "" {
		return withCode(exitLexicon, fmt.Errorf("no lexicon: pass --lex or set STENCIL_LEXICON"))
	}
	data, err := readInput(lexPath)
	if err != nil {
		return err
	}
	lex, err := lexicon.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return withCode(exitLexicon, err)
	}

	sum := xxh3.Hash128(data)
	fmt.Printf("version:    %s\n", lex.Version())
	fmt.Printf("atoms:      %d\n", lex.AtomCount())
	fmt.Printf("templates:  %d\n", lex.TemplateCount())
	fmt.Printf("stopwords:  %d\n", lex.Stopwords().Len())
	fmt.Printf("trie:       %d nodes, %d edges\n", lex.Trie().NodeCount(), lex.Trie().EdgeCount())
	fmt.Printf("token space: [0, %d)\n", lex.TokenSpace())
	fmt.Printf("artifact:   %s, xxh3 %016x%016x\n", humanize.Bytes(uint64(len(data))), sum.Hi, sum.Lo)
	return nil
}
