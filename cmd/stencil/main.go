// Command stencil encodes text into template-id streams and back,
// losslessly, using a lexicon artifact.
//
//	stencil encode-ids --lex lex.stlx --in doc.txt --out doc.will
//	stencil decode-ids --lex lex.stlx --in doc.will --out doc.txt
//	stencil roundtrip  --lex lex.stlx --in doc.txt
//	stencil lex convert --in lex.json --out lex.stlx
//	stencil lex info   --lex lex.stlx
//	stencil bench      --in corpus.txt
//
// Exit codes: 0 success, 1 lossless-verification failure, 2 malformed
// input, 3 lexicon error, 4 I/O error.
package main

import "github.com/ha1tch/stencil/cmd/stencil/cmd"

func main() {
	cmd.Execute()
}
