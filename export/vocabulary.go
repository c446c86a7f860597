package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/urdf-go/urdf"
)

// Well-known IRIs used when rendering literals.
const (
	RDFTypeIRI     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	XSDFloatIRI    = "http://www.w3.org/2001/XMLSchema#float"
	XSDDateTimeIRI = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// DefaultBase is the IRI prefix for term ids without a vocabulary entry.
const DefaultBase = "urn:urdf:"

// Vocabulary maps the compact ids of a graph back to IRIs.
//
// Term ids resolve through Terms. CURIEs resolve to the namespace IRI
// followed by the decimal local id. Anything unmapped falls back to Base.
type Vocabulary struct {
	Base       string            `yaml:"base"`
	Namespaces map[uint16]string `yaml:"namespaces"`
	Terms      map[uint16]string `yaml:"terms"`
}

// DefaultVocabulary returns a vocabulary that only knows rdf:type.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Base:       DefaultBase,
		Namespaces: map[uint16]string{},
		Terms: map[uint16]string{
			urdf.KeywordType: RDFTypeIRI,
		},
	}
}

// Validate checks that every IRI in the vocabulary is absolute.
func (v *Vocabulary) Validate() error {
	if v.Base == "" {
		return fmt.Errorf("base is required")
	}
	if !isAbsoluteIRI(v.Base) {
		return fmt.Errorf("base %q is not an absolute IRI", v.Base)
	}
	for id, iri := range v.Namespaces {
		if !isAbsoluteIRI(iri) {
			return fmt.Errorf("namespaces.%d: %q is not an absolute IRI", id, iri)
		}
	}
	for id, iri := range v.Terms {
		if !isAbsoluteIRI(iri) {
			return fmt.Errorf("terms.%d: %q is not an absolute IRI", id, iri)
		}
	}
	return nil
}

// LoadVocabulary loads a vocabulary from a YAML file. Entries of the file
// are merged over DefaultVocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	v := DefaultVocabulary()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vocabulary %s: %w", path, err)
	}
	return v, nil
}

// SaveToFile writes the vocabulary to a YAML file.
func (v *Vocabulary) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create vocabulary directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write vocabulary file: %w", err)
	}
	return nil
}

// IRI resolves a URIRef. The empty placeholder of nodes without an @id has
// no IRI and yields urdf.ErrArg.
func (v *Vocabulary) IRI(u urdf.URIRef) (string, error) {
	if id, ok := u.ID(); ok {
		if id <= 0xffff {
			if iri, ok := v.Terms[uint16(id)]; ok {
				return iri, nil
			}
		}
		return v.Base + strconv.FormatUint(id, 10), nil
	}
	if ns, local, ok := u.CURIE(); ok {
		if ns <= 0xffff {
			if iri, ok := v.Namespaces[uint16(ns)]; ok {
				return iri + strconv.FormatUint(local, 10), nil
			}
		}
		return v.Base + strconv.FormatUint(ns, 10) + "/" + strconv.FormatUint(local, 10), nil
	}
	return "", fmt.Errorf("%w: %s has no IRI", urdf.ErrArg, u)
}

// resource returns the IRI or blank node label of a subject or object.
// Nodes without an @id are labelled by their document offset.
func (v *Vocabulary) resource(t urdf.Term, node int) (id string, blank bool, err error) {
	switch r := t.(type) {
	case urdf.URIRef:
		if r.IsZero() {
			return "_:n" + strconv.Itoa(node), true, nil
		}
		iri, err := v.IRI(r)
		return iri, false, err
	case urdf.BNode:
		return "_:b" + strconv.FormatUint(r.ID(), 10), true, nil
	default:
		return "", false, fmt.Errorf("%w: %s is not a resource", urdf.ErrArg, t)
	}
}

// datatype returns the datatype IRI of a literal, or "" for plain strings.
func (v *Vocabulary) datatype(l urdf.Literal) (string, error) {
	switch l.Form() {
	case urdf.LiteralFloat:
		return XSDFloatIRI, nil
	case urdf.LiteralDate:
		return XSDDateTimeIRI, nil
	case urdf.LiteralTyped:
		dt, _ := l.Datatype()
		return v.IRI(dt)
	default:
		return "", nil
	}
}

func isAbsoluteIRI(s string) bool {
	scheme, _, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\n<>\"{}|\\^`")
}
