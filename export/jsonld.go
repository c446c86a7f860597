package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/geoknoesis/urdf-go/urdf"
)

const nquadsFormat = "application/n-quads"

// ToJSONLD returns g as an expanded JSON-LD document: an array of node
// objects, wrapped in a single graph object when g is named. Values use the
// generic map and slice types expected by JSON-LD processors.
func ToJSONLD(g *urdf.Graph, v *Vocabulary) ([]interface{}, error) {
	var (
		c     urdf.Cursor
		nodes []interface{}
		cur   map[string]interface{}
		last  = -1
	)
	for {
		t, err := g.FindNextTriple(&c)
		if errors.Is(err, urdf.ErrNoItem) {
			break
		}
		if err != nil {
			return nil, err
		}
		if c.NodeOffset() != last {
			last = c.NodeOffset()
			id, _, err := v.resource(t.S, last)
			if err != nil {
				return nil, err
			}
			cur = map[string]interface{}{"@id": id}
			nodes = append(nodes, cur)
		}
		p, err := v.IRI(t.P)
		if err != nil {
			return nil, err
		}
		o, err := jsonldValue(t.O, v, last)
		if err != nil {
			return nil, err
		}
		values, _ := cur[p].([]interface{})
		cur[p] = append(values, o)
	}
	if nodes == nil {
		nodes = []interface{}{}
	}

	name, err := g.Name()
	if err != nil {
		return nil, err
	}
	if u, ok := name.(urdf.URIRef); ok && u.IsZero() {
		return nodes, nil
	}
	id, _, err := v.resource(name, 0)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		map[string]interface{}{"@id": id, "@graph": nodes},
	}, nil
}

func jsonldValue(t urdf.Term, v *Vocabulary, node int) (interface{}, error) {
	lit, ok := t.(urdf.Literal)
	if !ok {
		id, _, err := v.resource(t, node)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"@id": id}, nil
	}
	dt, err := v.datatype(lit)
	if err != nil {
		return nil, err
	}
	value := map[string]interface{}{"@value": lit.Lexical()}
	if dt != "" {
		value["@type"] = dt
	}
	return value, nil
}

// toDataset runs the JSON-LD to RDF algorithm over the expanded form of g.
func toDataset(ctx context.Context, g *urdf.Graph, v *Vocabulary) (*ld.RDFDataset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	doc, err := ToJSONLD(g, v)
	if err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, ld.NewJsonLdOptions(v.Base))
	if err != nil {
		return nil, err
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	return dataset, nil
}

// ToNQuads converts g to N-Quads through the JSON-LD to RDF algorithm.
func ToNQuads(ctx context.Context, g *urdf.Graph, v *Vocabulary) (string, error) {
	dataset, err := toDataset(ctx, g, v)
	if err != nil {
		return "", err
	}
	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return "", err
	}
	nquads, ok := serialized.(string)
	if !ok {
		return "", fmt.Errorf("jsonld: unexpected N-Quads result %T", serialized)
	}
	return nquads, nil
}

// Canonicalize returns the URDNA2015 canonical N-Quads of g. Two graphs
// holding the same triples canonicalize identically, whatever their
// insertion order and blank node ids.
func Canonicalize(ctx context.Context, g *urdf.Graph, v *Vocabulary) (string, error) {
	dataset, err := toDataset(ctx, g, v)
	if err != nil {
		return "", err
	}
	api := ld.NewJsonLdApi()
	opts := ld.NewJsonLdOptions("")
	opts.Format = nquadsFormat
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := api.Normalize(dataset, opts)
	if err != nil {
		return "", err
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("jsonld: unexpected normalization result %T", normalized)
	}
	return value, nil
}
