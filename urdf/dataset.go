package urdf

import "fmt"

// Dataset groups named graphs in one document.
//
// Datasets, mappings and graph patterns (graphs containing variables) are
// part of the document format but have no implementation yet; the entry
// points below report ErrNotImplemented so that callers can detect them.
type Dataset struct{}

// NewDataset reports ErrNotImplemented.
func NewDataset(opts ...Option) (*Dataset, error) {
	return nil, fmt.Errorf("%w: datasets", ErrNotImplemented)
}

// Kind returns DocumentDataset.
func (ds *Dataset) Kind() DocumentKind { return DocumentDataset }

// AddGraph reports ErrNotImplemented.
func (ds *Dataset) AddGraph(g *Graph) error {
	return fmt.Errorf("%w: datasets", ErrNotImplemented)
}

// FindNextMapping would match pattern against g and return the next
// variable binding. It reports ErrNotImplemented.
func (g *Graph) FindNextMapping(pattern *Graph, c *Cursor) ([]Term, error) {
	return nil, fmt.Errorf("%w: graph pattern matching", ErrNotImplemented)
}
