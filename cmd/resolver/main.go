// Command resolver extracts an (origin, destination) pair from each
// input sentence, using a gazetteer of known place names.
package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/ludovictagnon/travelorder/internal/gazetteer"
	"github.com/ludovictagnon/travelorder/internal/resolver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("resolver", flag.ContinueOnError)
	places := fs.String("places", "data/places.txt", "path to the gazetteer file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	inputs := fs.Args()

	if _, err := os.Stat(*places); err != nil {
		fmt.Fprintf(os.Stderr, "Places file not found: %s\n", *places)
		return 1
	}

	g, err := gazetteer.Load(*places)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load places: %v\n", err)
		return 1
	}
	if len(g.Mapping) == 0 {
		fmt.Fprintln(os.Stderr, "Places list is empty.")
		return 1
	}

	r := resolver.New(g)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for line := range iterInputLines(inputs) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ",")
		if idx < 0 {
			continue
		}
		sentenceID, sentence := line[:idx], line[idx+1:]
		if sentenceID == "" || sentence == "" {
			continue
		}

		origin, destination, ok := r.Resolve(sentence)
		if ok {
			fmt.Fprintf(out, "%s,%s,%s\n", sentenceID, origin, destination)
		} else {
			fmt.Fprintf(out, "%s,INVALID,\n", sentenceID)
		}
	}
	return 0
}

// iterInputLines yields every line from stdin (no inputs given), from
// each filesystem path, from stdin wherever "-" appears, or from an
// http(s) URL's body.
func iterInputLines(inputs []string) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		if len(inputs) == 0 {
			scanLines(os.Stdin, ch)
			return
		}
		for _, item := range inputs {
			switch {
			case item == "-":
				scanLines(os.Stdin, ch)
			case strings.HasPrefix(item, "http://") || strings.HasPrefix(item, "https://"):
				scanURL(item, ch)
			default:
				scanFile(item, ch)
			}
		}
	}()
	return ch
}

func scanLines(r io.Reader, ch chan<- string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ch <- scanner.Text()
	}
}

func scanFile(path string, ch chan<- string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping unreadable input %s: %v\n", path, err)
		return
	}
	defer f.Close()
	scanLines(f, ch)
}

func scanURL(url string, ch chan<- string) {
	resp, err := http.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping unreachable input %s: %v\n", url, err)
		return
	}
	defer resp.Body.Close()
	scanLines(resp.Body, ch)
}
