// Command randquik writes a seeded, cryptographically secure pseudo-random
// byte stream to a file or pipe at multi-gigabyte-per-second rates.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/randquik/randquik/chacha"
	"github.com/randquik/randquik/internal/cliopts"
	"github.com/randquik/randquik/pipeline"
)

// defaultIV is the 16-byte nonce convention used when randquik is run as
// a standalone stream generator: eight zero bytes followed by the ASCII
// tag "RandQuik", matching original_source/src/randquik.c.
var defaultIV = [chacha.IVSize]byte{0, 0, 0, 0, 0, 0, 0, 0, 'R', 'a', 'n', 'd', 'Q', 'u', 'i', 'k'}

func main() {
	log.SetFlags(0)
	log.SetPrefix("randquik: ")

	if err := run(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	workers := fs.Int("t", pipeline.DefaultWorkers, "worker thread count")
	seedHex := fs.String("s", "", "32-byte hex seed; short strings are zero-padded on the right (default: read from OS entropy)")
	rounds := fs.Uint("r", uint(chacha.Rounds20), "ChaCha rounds (8, 12, or 20)")
	byteCap := fs.String("b", "", "cap on total bytes written (0/empty = unlimited); accepts k/m/g/t and ki/mi/gi/ti suffixes")
	outPath := fs.String("o", "", "output file path; '-' or absent means stdout")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return &cliopts.ExitError{Kind: cliopts.BadOption, Msg: "bad command-line arguments", Err: err}
	}

	r := chacha.Rounds(*rounds)
	if !r.Valid() {
		return &cliopts.ExitError{Kind: cliopts.BadOption, Msg: fmt.Sprintf("invalid -r value %d, must be 8, 12, or 20", *rounds)}
	}
	if *workers <= 0 {
		return &cliopts.ExitError{Kind: cliopts.BadOption, Msg: "-t must be a positive integer"}
	}

	maxBytes, err := cliopts.ParseByteCap(*byteCap)
	if err != nil {
		return err
	}

	key, err := resolveSeed(*seedHex)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(*outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	w := pipeline.New(pipeline.Config{
		Key:      key,
		IV:       defaultIV,
		Rounds:   r,
		Workers:  *workers,
		MaxBytes: maxBytes,
	})
	handleSignals(w.RequestStop)

	written, err := w.Run(out)
	if err != nil {
		return &cliopts.ExitError{Kind: cliopts.WriteIO, Msg: fmt.Sprintf("after %d bytes", written), Err: err}
	}
	return nil
}

// resolveSeed decodes -s if given, otherwise draws a fresh seed from the
// OS entropy source and echoes a reproduction command line to stderr
// (spec.md §6).
func resolveSeed(seedHex string) ([cliopts.SeedSize]byte, error) {
	if seedHex != "" {
		return cliopts.DecodeSeed(seedHex)
	}
	key, err := cliopts.GenerateSeed()
	if err != nil {
		return key, err
	}
	log.Printf("no -s given, generated seed: -s %s", hex.EncodeToString(key[:]))
	return key, nil
}

// openOutput resolves -o to a writer. An empty path or "-" means stdout,
// refused when stdout is an interactive terminal.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		if isTerminal(int(os.Stdout.Fd())) {
			return nil, nil, &cliopts.ExitError{Kind: cliopts.RefuseTTY, Msg: "refusing to write keystream bytes to a terminal; pass -o or redirect stdout"}
		}
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, &cliopts.ExitError{Kind: cliopts.OpenOutput, Msg: "cannot open output file", Err: err}
	}
	return f, func() { f.Close() }, nil
}
