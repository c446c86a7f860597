package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/urdf-go/export"
	"github.com/geoknoesis/urdf-go/urdf"
)

// Ids of the sensor communication vocabulary. The first five ids are
// reserved by the JSON-LD keywords.
const (
	nsCoswot     = 6
	nsCosdataset = 7
	nsSaref      = 8

	termCommunication   = 9
	termHasMedium       = 10
	termHasCommunicator = 11
	termConveys         = 12
	termIsAbout         = 13
	termHasTimestamp    = 14
	termObservation     = 15
	termMadeBy          = 16
	termHasResult       = 17
	termHasValue        = 18
	termResultTime      = 19
)

const (
	coswotIRI     = "https://w3id.org/coswot/"
	cosdatasetIRI = "https://w3id.org/coswot/dataset/"
	sarefIRI      = "https://saref.etsi.org/core/"
)

func demoVocabulary() *export.Vocabulary {
	v := export.DefaultVocabulary()
	v.Namespaces[nsCoswot] = coswotIRI
	v.Namespaces[nsCosdataset] = cosdatasetIRI
	v.Namespaces[nsSaref] = sarefIRI
	for id, iri := range map[uint16]string{
		termCommunication:   coswotIRI + "Communication",
		termHasMedium:       coswotIRI + "hasMedium",
		termHasCommunicator: coswotIRI + "hasCommunicator",
		termConveys:         coswotIRI + "conveys",
		termIsAbout:         coswotIRI + "isAbout",
		termHasTimestamp:    coswotIRI + "hasTimestamp",
		termObservation:     sarefIRI + "Observation",
		termMadeBy:          sarefIRI + "madeBy",
		termHasResult:       sarefIRI + "hasResult",
		termHasValue:        sarefIRI + "hasValue",
		termResultTime:      sarefIRI + "resultTime",
	} {
		v.Terms[id] = iri
	}
	return v
}

// buildDemoGraph records one CO2 reading: a communication conveying an
// observation made by a sensor, whose result is a blank node.
func buildDemoGraph(logger *slog.Logger) (*urdf.Graph, error) {
	g, err := urdf.NewGraph(urdf.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	com := urdf.NewCURIE(nsCosdataset, 0)
	cossb := urdf.NewCURIE(nsCosdataset, 1)
	cosio := urdf.NewCURIE(nsCosdataset, 2)
	obs := urdf.NewCURIE(nsCosdataset, 3)
	sensor := urdf.NewCURIE(nsCosdataset, 4)
	res := g.NewBNode()

	label := urdf.NewLiteral("4ET_429_sensor1_CO2")
	ts := urdf.NewDateLiteral(1666785720)
	val := urdf.NewFloatLiteral(1250)

	triples := []urdf.Triple{
		{S: com, P: urdf.RDFType, O: urdf.NewURIRef(termCommunication)},
		{S: com, P: urdf.NewURIRef(termHasMedium), O: cossb},
		{S: com, P: urdf.NewURIRef(termHasCommunicator), O: cosio},
		{S: com, P: urdf.NewURIRef(termConveys), O: obs},
		{S: com, P: urdf.NewURIRef(termIsAbout), O: label},
		{S: com, P: urdf.NewURIRef(termHasTimestamp), O: ts},

		{S: obs, P: urdf.RDFType, O: urdf.NewURIRef(termObservation)},
		{S: obs, P: urdf.NewURIRef(termMadeBy), O: sensor},
		{S: obs, P: urdf.NewURIRef(termHasResult), O: res},
		{S: obs, P: urdf.NewURIRef(termResultTime), O: ts},

		{S: res, P: urdf.NewURIRef(termHasValue), O: val},
	}
	for _, t := range triples {
		if err := g.Add(t); err != nil {
			return nil, fmt.Errorf("add %s: %w", t, err)
		}
	}
	if err := g.Freeze(); err != nil {
		return nil, err
	}
	return g, nil
}

func countTriples(g *urdf.Graph) (int, error) {
	var c urdf.Cursor
	n := 0
	for {
		_, err := g.FindNextTriple(&c)
		if errors.Is(err, urdf.ErrNoItem) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func demoCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build the sensor observation example graph and write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := buildDemoGraph(a.logger)
			if err != nil {
				return err
			}
			n, err := countTriples(g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d triples in graph.\n", n)

			if err := os.WriteFile(output, g.Bytes(), 0644); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to file '%s'.\n", g.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "coswot.cbor", "Output file")
	return cmd
}
