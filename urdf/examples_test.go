package urdf_test

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/urdf-go/urdf"
)

func ExampleGraph_AddTriple() {
	g, err := urdf.NewGraph()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	s := urdf.NewCURIE(0, 0)
	_ = g.AddTriple(s, urdf.NewURIRef(6), urdf.NewURIRef(7))
	_ = g.AddTriple(s, urdf.NewURIRef(8), urdf.NewURIRef(9))
	if err := g.Freeze(); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("% X\n", g.Bytes())

	// Output:
	// BF 01 9F BF 00 D9 01 40 82 00 00 06 07 08 09 FF FF FF
}

func ExampleGraph_FindNextTriple() {
	g, err := urdf.NewGraph()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sensor := urdf.NewCURIE(7, 0)
	_ = g.AddTriple(sensor, urdf.RDFType, urdf.NewURIRef(9))
	_ = g.AddTriple(sensor, urdf.NewURIRef(14), urdf.NewDateLiteral(1666785720))
	_ = g.AddTriple(sensor, urdf.NewURIRef(15), urdf.NewFloatLiteral(1250))

	var c urdf.Cursor
	for {
		t, err := g.FindNextTriple(&c)
		if errors.Is(err, urdf.ErrNoItem) {
			break
		}
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(t)
	}

	// Output:
	// <7:0> <2> <9> .
	// <7:0> <14> "2022-10-26T12:02:00Z"^^xsd:dateTime .
	// <7:0> <15> "1250"^^xsd:float .
}

func ExampleLoadGraph() {
	data := []byte{0xBF, 0x01, 0x9F, 0xBF, 0x00, 0x14, 0x06, 0x64, 0x70, 0x6C, 0x6F, 0x70, 0xFF, 0xFF, 0xFF}
	g, err := urdf.LoadGraph(data)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	err = g.ForEach(func(t urdf.Triple) error {
		fmt.Println(t.S, t.P, t.O)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// <20> <6> "plop"
}

func ExampleCode() {
	_, err := urdf.LoadGraph([]byte{0xA0})
	fmt.Println(urdf.Code(err), urdf.Status(err))

	// Output:
	// BUFFER_ERROR -3
}
