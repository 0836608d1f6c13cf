// Package document implements the two-part job document format: a YAML
// metadata block and an executable script block, divided by a `---` line.
package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Separator divides the metadata block from the script block. The split
// happens on the first occurrence; any later separator-looking line belongs
// to the script.
const Separator = "\n---\n"

// Document is a parsed job document.
type Document struct {
	Metadata Metadata
	Script   string
}

// Metadata is the declarative head of a document.
type Metadata struct {
	Description string         `yaml:"description"`
	Arguments   []ArgumentDecl `yaml:"arguments"`
}

// ArgumentDecl declares one parameter the document accepts at invocation
// time. Type defaults to "string" when empty.
type ArgumentDecl struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Help      string `yaml:"help"`
	Default   any    `yaml:"default"`
	Remainder bool   `yaml:"remainder"`
}

// MalformedError reports a document that cannot be split into its two
// parts.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

// MetadataError reports an unparsable or incomplete metadata block.
type MetadataError struct {
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document metadata: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid document metadata: %s", e.Reason)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// Parse splits a raw document on the first separator and decodes the
// metadata block. The metadata and script partition the input losslessly
// around the separator.
func Parse(raw string) (*Document, error) {
	head, script, found := strings.Cut(raw, Separator)
	if !found {
		return nil, &MalformedError{
			Reason: fmt.Sprintf("missing %q separator line between metadata and script", "---"),
		}
	}

	md, err := ParseMetadata(head)
	if err != nil {
		return nil, err
	}

	return &Document{Metadata: *md, Script: script}, nil
}

// ParseMetadata decodes the metadata block of a document.
func ParseMetadata(src string) (*Metadata, error) {
	var md Metadata
	if err := yaml.Unmarshal([]byte(src), &md); err != nil {
		return nil, &MetadataError{Reason: "not valid YAML", Err: err}
	}
	for i, arg := range md.Arguments {
		if arg.Name == "" {
			return nil, &MetadataError{
				Reason: fmt.Sprintf("arguments[%d] is missing the required 'name' field", i),
			}
		}
	}
	return &md, nil
}
