package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrReportNotFound indicates the report file does not exist.
var ErrReportNotFound = errors.New("report file not found")

// ErrReportInvalid indicates the report file exists but is malformed.
var ErrReportInvalid = errors.New("report file invalid")

// Loader stream-parses an analysis report file.
type Loader struct {
	path string

	// Warnings collects non-fatal oddities found while loading, such as
	// entries with missing or invalid numeric fields.
	Warnings []string
}

// NewLoader creates a Loader for the given report path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the report, returning the summary block and one FileRecord
// per entry of the files object. Records start with ExistsOnDisk=false;
// the scanner's cross-validation flips it for files actually present.
//
// A missing file returns ErrReportNotFound; malformed JSON or a path key
// containing ".." returns ErrReportInvalid. Both are fatal configuration
// errors. Invalid numeric fields are not fatal: they default to 0 and add
// a warning.
func (l *Loader) Load() (Summary, map[string]*FileRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Summary{}, nil, fmt.Errorf("%w: %s", ErrReportNotFound, l.path)
		}
		return Summary{}, nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := json.NewDecoder(f)

	if err := expectDelim(dec, '{'); err != nil {
		return Summary{}, nil, fmt.Errorf("%w: %v", ErrReportInvalid, err)
	}

	var summary Summary
	records := make(map[string]*FileRecord)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Summary{}, nil, fmt.Errorf("%w: %v", ErrReportInvalid, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Summary{}, nil, fmt.Errorf("%w: unexpected token %v", ErrReportInvalid, keyTok)
		}

		switch key {
		case "summary":
			if err := dec.Decode(&summary); err != nil {
				return Summary{}, nil, fmt.Errorf("%w: summary: %v", ErrReportInvalid, err)
			}
		case "files":
			if err := l.decodeFiles(dec, records); err != nil {
				return Summary{}, nil, err
			}
		default:
			// Skip unknown top-level blocks.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return Summary{}, nil, fmt.Errorf("%w: %v", ErrReportInvalid, err)
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return Summary{}, nil, fmt.Errorf("%w: %v", ErrReportInvalid, err)
	}

	return summary, records, nil
}

// decodeFiles streams the files object entry by entry.
func (l *Loader) decodeFiles(dec *json.Decoder, records map[string]*FileRecord) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("%w: files: %v", ErrReportInvalid, err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: files: %v", ErrReportInvalid, err)
		}
		relPath, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: files: unexpected key %v", ErrReportInvalid, keyTok)
		}

		if hasTraversal(relPath) {
			return fmt.Errorf("%w: path traversal in report key %q", ErrReportInvalid, relPath)
		}

		// Decode into a loose map so one bad field degrades to a default
		// instead of aborting the whole load.
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("%w: files[%s]: %v", ErrReportInvalid, relPath, err)
		}

		records[relPath] = &FileRecord{
			Path:          relPath,
			MaxDepth:      l.intField(relPath, entry, "max_depth"),
			TotalBranches: l.intField(relPath, entry, "total_branches"),
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("%w: files: %v", ErrReportInvalid, err)
	}
	return nil
}

// intField extracts a non-negative integer field, defaulting to 0 with a
// warning when the field is missing, non-integer, or negative.
func (l *Loader) intField(relPath string, entry map[string]any, field string) int {
	raw, present := entry[field]
	if !present {
		l.warnf("file %q is missing %s; defaulting to 0", relPath, field)
		return 0
	}

	num, ok := raw.(float64)
	if !ok || num != float64(int(num)) || num < 0 {
		l.warnf("file %q has invalid %s=%v; defaulting to 0", relPath, field, raw)
		return 0
	}
	return int(num)
}

func (l *Loader) warnf(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// hasTraversal reports whether any component of the forward-slash path
// is "..".
func hasTraversal(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// expectDelim consumes one token and verifies it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("unexpected end of document")
		}
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
