package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"radarnet/internal/model"
)

// StdinRef selects standard input instead of a file path.
const StdinRef = "-"

// StdinNetworkName names a network read from stdin that carries no name.
const StdinNetworkName = "stdin-network"

type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an input format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid input format: %s (use auto, json or yaml)", s)
	}
}

// MalformedInputError covers documents that cannot be turned into a
// network at all: unreadable, unparsable, wrongly typed or missing a
// required field.
type MalformedInputError struct {
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %v", e.Source, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Loader reads network documents from files or a stdin stream.
type Loader struct {
	stdin  io.Reader
	logger *slog.Logger
}

// New creates a loader. A nil logger discards log output.
func New(stdin io.Reader, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{stdin: stdin, logger: logger}
}

// Load reads the network named by ref: a file path, or StdinRef.
// Read failures are returned as-is; decode failures as *MalformedInputError.
func (l *Loader) Load(ref string, format Format) (model.Network, error) {
	if ref == StdinRef {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return model.Network{}, fmt.Errorf("read stdin: %w", err)
		}
		if format == FormatAuto {
			format = FormatJSON
		}
		l.logger.Debug("read network document", "source", "stdin", "bytes", len(data), "format", format)
		return Decode(data, format, "stdin", StdinNetworkName)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return model.Network{}, fmt.Errorf("read %s: %w", ref, err)
	}
	if format == FormatAuto {
		format = FormatForPath(ref)
	}
	l.logger.Debug("read network document", "source", ref, "bytes", len(data), "format", format)
	return Decode(data, format, ref, FallbackName(ref))
}

// NodesKey is the top-level key that marks a document as a network.
const NodesKey = "nodes"

// IsNetworkDocument reports whether the file at path is a mapping with a
// top-level nodes key. Used to tell networks from other JSON or YAML files
// found in a directory. A file that does not parse is returned as
// *MalformedInputError rather than skipped.
func (l *Loader) IsNetworkDocument(path string, format Format) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if format == FormatAuto {
		format = FormatForPath(path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	var top any
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &top)
	default:
		err = json.Unmarshal(data, &top)
	}
	if err != nil {
		return false, &MalformedInputError{Source: path, Err: err}
	}

	m, ok := top.(map[string]any)
	if !ok {
		return false, nil
	}
	_, ok = m[NodesKey]
	return ok, nil
}

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FallbackName is the file name without its final extension.
func FallbackName(path string) string {
	base := filepath.Base(path)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}

// Decode parses a JSON or YAML network document. fallbackName is used when
// the document has no name key. The result is not validated.
func Decode(data []byte, format Format, source, fallbackName string) (model.Network, error) {
	malformed := func(err error) (model.Network, error) {
		return model.Network{}, &MalformedInputError{Source: source, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return malformed(errors.New("empty document"))
	}

	var doc networkDocument
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return malformed(err)
		}
	case FormatJSON, FormatAuto:
		if err := json.Unmarshal(data, &doc); err != nil {
			return malformed(err)
		}
	default:
		return malformed(fmt.Errorf("unsupported format %q", format))
	}

	if err := validate.Struct(doc); err != nil {
		return malformed(formatValidationError(err))
	}

	return doc.toNetwork(fallbackName), nil
}
