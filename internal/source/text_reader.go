package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rgefryer/planner/internal/common"
)

// ReaderOptions configures how a TextReader handles malformed lines.
type ReaderOptions struct {
	// Strict halts on the first malformed line. When false (the
	// default) the line is skipped and a warning is logged; skipped
	// lines are not returned to the caller.
	Strict bool
	Logger *common.Logger
}

// DefaultReaderOptions returns a lenient reader using the default
// logger.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{Logger: common.DefaultLogger()}
}

// ReadFile opens path and parses it as a SliceSource of chart tokens.
func ReadFile(path string, opts ReaderOptions) (*SliceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read parses r (the contents of a ".chart" file named name for
// diagnostics) into a SliceSource.
//
// Each non-blank line is either a node line or an attribute line.
// Trailing "#" comments are discarded first. A line whose trimmed
// body starts with "- " is an attribute of the current node, written
// "- key: value"; any other non-blank line introduces a child node
// named by its trimmed text, nested according to how far it is
// indented relative to its parent.
func Read(r io.Reader, name string, opts ReaderOptions) (*SliceSource, error) {
	logger := opts.Logger
	if logger == nil {
		logger = common.DefaultLogger()
	}

	scanner := bufio.NewScanner(r)
	var tokens []Token
	errs := common.NewMultiError()

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tok, skip, err := parseLine(scanner.Text(), lineNum)
		if err != nil {
			parseErr := &common.ParseError{Line: lineNum, Text: scanner.Text(), Message: err.Error()}
			if opts.Strict {
				return nil, &common.ConfigError{File: name, Line: lineNum, Message: err.Error()}
			}
			logger.Warn("skipping malformed line in %s: %s", name, parseErr.Error())
			errs.Add(parseErr)
			continue
		}
		if skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return NewSliceSource(tokens), nil
}

// parseLine classifies a single source line. skip is true for blank
// or comment-only lines.
func parseLine(line string, lineNum int) (tok Token, skip bool, err error) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, " \t")

	withIndent := len(line)
	trimmed := strings.TrimLeft(line, " \t")
	indent := withIndent - len(trimmed)

	if trimmed == "" {
		return Token{}, true, nil
	}

	if !strings.HasPrefix(trimmed, "- ") {
		return Token{Node: &NodeToken{LineNum: lineNum, Indent: indent + 1, Name: trimmed}}, false, nil
	}

	body := strings.TrimLeft(trimmed[2:], " \t")
	pos := strings.IndexByte(body, ':')
	switch {
	case pos < 0:
		return Token{}, false, fmt.Errorf("attribute with no value")
	case pos == 0:
		return Token{}, false, fmt.Errorf("attribute with no key")
	}

	key := strings.TrimSpace(body[:pos])
	value := strings.TrimSpace(body[pos+1:])
	return Token{Attribute: &AttributeToken{LineNum: lineNum, Key: key, Value: value}}, false, nil
}
