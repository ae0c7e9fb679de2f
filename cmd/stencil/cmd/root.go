package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ha1tch/stencil/pkg/lexicon"
)

// Exit codes of the stencil tool.
const (
	exitOK      = 0
	exitVerify  = 1 // lossless verification failed
	exitInput   = 2 // malformed input (container or message)
	exitLexicon = 3 // lexicon cannot be loaded
	exitIO      = 4 // file system or stream error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "stencil",
	Short:         "Structure-aware lossless text codec",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	log.SetHandler(clihandler.New(os.Stderr))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("stencil")
	viper.BindEnv("lexicon", "STENCIL_LEXICON")
}

// Execute runs the CLI and exits with the documented code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(exitCode(err))
	}
}

// coded ties an error to an exit code while staying transparent to
// errors.Is/As through Unwrap.
type coded struct {
	code int
	err  error
}

func (c *coded) Error() string { return c.err.Error() }
func (c *coded) Unwrap() error { return c.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &coded{code: code, err: err}
}

func exitCode(err error) int {
	var c *coded
	if errors.As(err, &c) {
		return c.code
	}
	return exitInput
}

// resolveLexPath applies the STENCIL_LEXICON fallback to an empty --lex.
func resolveLexPath(flag string) string {
	if flag != "" {
		return flag
	}
	return viper.GetString("lexicon")
}

// loadLexicon loads either artifact form, mapping failures to exit code 3.
func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return nil, withCode(exitLexicon, errors.New("no lexicon: pass --lex or set STENCIL_LEXICON"))
	}
	lex, err := lexicon.Load(path)
	if err != nil {
		return nil, withCode(exitLexicon, err)
	}
	log.Debugf("lexicon %s: version %s, %d templates, %d atoms",
		path, lex.Version(), lex.TemplateCount(), lex.AtomCount())
	return lex, nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withCode(exitIO, err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return withCode(exitIO, err)
	}
	return nil
}

// firstMismatch returns the offset of the first differing byte, assuming
// a and b differ somewhere (possibly only in length).
func firstMismatch(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func mustMarkRequired(cmd *cobra.Command, flags ...string) {
	for _, f := range flags {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Sprintf("flag %s: %v", f, err))
		}
	}
}
