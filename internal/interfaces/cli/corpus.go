package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/turtacn/SAScore/pkg/errors"
)

// maxLineBytes bounds one corpus line.
const maxLineBytes = 1 << 20

// ReadCorpus reads SMILES from r, one molecule per line.  Only the first
// whitespace-separated field counts, so "CCO ethanol" lines work.  Blank
// lines and lines starting with '#' are skipped.
func ReadCorpus(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to read corpus")
	}
	return out, nil
}

// readCorpusFile reads a corpus from path, or from stdin for "-".
func readCorpusFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return ReadCorpus(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to open corpus").WithDetail("path=" + path)
	}
	defer f.Close()
	return ReadCorpus(f)
}

//Personal.AI order the ending
