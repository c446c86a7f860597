// Package export renders compact urdf graphs in standard RDF syntaxes.
//
// Compact graphs carry integer ids instead of IRIs; a Vocabulary maps them
// back. N-Triples are written directly from the graph buffer, the other
// formats go through an expanded JSON-LD document and a JSON-LD processor.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/geoknoesis/urdf-go/urdf"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces expanded JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"

	// FormatNQuads produces N-Quads (.nq) output.
	FormatNQuads Format = "nquads"

	// FormatCanonical produces URDNA2015 canonical N-Quads.
	FormatCanonical Format = "canonical"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - expanded form",
	},
	FormatNQuads: {
		Name:        FormatNQuads,
		MIMEType:    "application/n-quads",
		Extension:   ".nq",
		Description: "N-Quads - Line-based RDF dataset format",
	},
	FormatCanonical: {
		Name:        FormatCanonical,
		MIMEType:    "application/n-quads",
		Extension:   ".nq",
		Description: "Canonical N-Quads (URDNA2015)",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(FormatRegistry))
	for name := range FormatRegistry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Write renders g to w in the given format.
func Write(ctx context.Context, w io.Writer, g *urdf.Graph, v *Vocabulary, format Format) error {
	switch format {
	case FormatNTriples:
		return WriteNTriples(w, g, v)
	case FormatJSONLD:
		doc, err := ToJSONLD(g, v)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatNQuads:
		out, err := ToNQuads(ctx, g, v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatCanonical:
		out, err := Canonicalize(ctx, g, v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
