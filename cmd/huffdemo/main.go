/*
The huffdemo command compresses its input with a Huffman code and reports the
code table, the packed payload, and the size reduction.

Usage:
  $ huffdemo [flags] [text ...]

With no text arguments, the input is read from stdin.  By default the input
text is transcoded into the bytes of -encoding and those bytes are the
symbols.  With -ints, the input is a comma-separated list of integers and the
integers themselves are the symbols.
*/
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	huffman "github.com/chronos-tachyon/huffpack"
)

// Flags
var (
	flagEncoding = flag.String("encoding", "utf-8", "Character encoding (WHATWG label) used to turn the input text into bytes.")
	flagInts     = flag.Bool("ints", false, "Treat the input as comma-separated integers and compress the integers themselves.")
	flagRaw      = flag.Bool("raw", false, "Write only the packed payload to stdout.")
	flagForce    = flag.Bool("force", false, "With -raw, write the payload even if stdout is a terminal.")
	flagTable    = flag.Bool("table", false, "Also print the code table as JSON.")
	flagTree     = flag.Bool("tree", false, "Also print the Huffman tree.")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: huffdemo [flags] [text ...]\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("huffdemo: ")

	input, err := readInput(flag.Args(), os.Stdin)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	if *flagRaw && !*flagForce && term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalf("refusing to write a binary payload to a terminal; use -force to override")
	}

	opts := options{raw: *flagRaw, table: *flagTable, tree: *flagTree}
	if *flagInts {
		symbols, err := parseInts(input)
		if err != nil {
			log.Fatalf("parsing -ints input: %v", err)
		}
		err = run(os.Stdout, symbols, len(input), opts, nil)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	enc, err := htmlindex.Get(*flagEncoding)
	if err != nil {
		log.Fatalf("-encoding %q: %v", *flagEncoding, err)
	}
	symbols, err := enc.NewEncoder().Bytes([]byte(input))
	if err != nil {
		log.Fatalf("transcoding input to %s: %v", *flagEncoding, err)
	}
	err = run(os.Stdout, symbols, len(symbols), opts, func(decoded []byte) (string, error) {
		return decodeText(enc, decoded)
	})
	if err != nil {
		log.Fatal(err)
	}
}

type options struct {
	raw   bool
	table bool
	tree  bool
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) != 0 {
		return strings.Join(args, " "), nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}

func parseInts(input string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeText(enc encoding.Encoding, decoded []byte) (string, error) {
	text, err := enc.NewDecoder().Bytes(decoded)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// run compresses symbols, verifies that the payload decompresses back to
// symbols, and writes a report (or, with opts.raw, just the payload) to w.
// inputLen is the input size in bytes, used to compute the savings.  If
// render is non-nil, it is used to show the decoded symbols as text.
func run[S huffman.Symbol](w io.Writer, symbols []S, inputLen int, opts options, render func([]S) (string, error)) error {
	root, err := huffman.BuildTree(huffman.Frequencies(symbols))
	if err != nil {
		return err
	}
	table, err := huffman.BuildCodeTable(root)
	if err != nil {
		return err
	}
	payload, err := huffman.Compress(symbols, table)
	if err != nil {
		return err
	}
	decoded, err := huffman.Decompress(payload, table)
	if err != nil {
		return err
	}
	if !equal(symbols, decoded) {
		return errors.New("round trip mismatch: decoded symbols differ from input")
	}

	if opts.raw {
		_, err = w.Write(payload)
		return err
	}

	var buf bytes.Buffer
	if opts.tree {
		_, _ = root.Dump(&buf)
	}
	_, _ = table.Dump(&buf)
	if opts.table {
		raw, err := json.Marshal(table)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "table: %s\n", raw)
	}
	fmt.Fprintf(&buf, "payload: % x\n", payload)
	fmt.Fprintf(&buf, "symbols: %d, coded bits: %d\n", len(symbols), table.EncodedBits(huffman.Frequencies(symbols)))
	fmt.Fprintf(&buf, "input bytes: %d, payload bytes: %d, savings: %.2f%%\n", inputLen, len(payload), huffman.Savings(inputLen, len(payload)))
	if render != nil {
		text, err := render(decoded)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "decoded: %q\n", text)
	}
	_, err = buf.WriteTo(w)
	return err
}

func equal[S huffman.Symbol](a, b []S) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
