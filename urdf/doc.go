// Package urdf provides a compact RDF graph store whose serialized form is
// its in-memory form.
//
// A graph is a single CBOR byte buffer laid out like a streaming JSON-LD
// document, with integer keyword codes (0 = @id, 1 = @graph, 2 = @type,
// 3 = @value, 4 = @language):
//
//	{_ 0: <graph id>, 1: [_ {_ 0: <subject>, <p>: <o>, ... }, ... ] }
//
// It targets memory-constrained sensor devices that build and query small
// graphs: triples are spliced into the buffer in place, and iteration
// decodes triples directly from the bytes using a Cursor of three offsets.
// No object graph is ever built.
//
// Terms are views over canonical CBOR encodings:
//   - URIRef: an unsigned int term id, or tag 320 + [namespace, local] (CURIE)
//   - BNode: tag 2020 + unsigned int
//   - Literal: text string, single-precision float, tag 1 + epoch seconds,
//     or {3: lexical, 2: datatype}
//   - Variable: tag 2019 + unsigned int
//
// Because encodings are minimal, two terms are equal iff their kinds and
// bytes are equal (see Compare).
//
// Example (building and reading a graph):
//
//	g, err := urdf.NewGraph()
//	if err != nil {
//	    // handle error
//	}
//	s := urdf.NewCURIE(7, 0)
//	_ = g.AddTriple(s, urdf.RDFType, urdf.NewURIRef(9))
//	_ = g.AddTriple(s, urdf.NewURIRef(14), urdf.NewDateLiteral(1666785720))
//	if err := g.Freeze(); err != nil {
//	    // handle error
//	}
//
//	var c urdf.Cursor
//	for {
//	    t, err := g.FindNextTriple(&c)
//	    if err == urdf.ErrNoItem {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process t.S, t.P, t.O
//	}
//
// The frozen buffer (Graph.Bytes) can be written to storage or sent over
// the network as is, and loaded back with LoadGraph.
//
// Errors are classified by sentinel values (ErrArg, ErrBuffer, ErrNoItem,
// ErrCBOR, ErrMalloc, ErrNotImplemented); use errors.Is or Code. ErrNoItem
// only marks the end of a sequence.
//
// Datasets, mappings and multi-valued objects are declared by the format
// but not implemented; they report ErrNotImplemented.
package urdf
