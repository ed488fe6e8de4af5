package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// graph snapshot format (bzip2 compressed text):
//
//	<numVertices> <numEdges>
//	<lat> <lon>                                             (numVertices lines)
//	<tail> <head> <length> <twoWay> <n> <lat> <lon> ...     (numEdges lines, n geometry points)

func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return g.Encode(f)
}

// Encode. writes a bzip2 snapshot of g to out
func (g *Graph) Encode(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", len(g.vertices), len(g.edges))

	for vId := 0; vId < len(g.vertices); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s\n", latF, lonF)
	}

	for i := range g.edges {
		e := &g.edges[i]
		lengthF := strconv.FormatFloat(e.length, 'f', -1, 64)
		fmt.Fprintf(w, "%d %d %s %t %d", e.tail, e.head, lengthF, e.twoWay, len(e.geometry))
		for _, c := range e.geometry {
			fmt.Fprintf(w, " %s %s", strconv.FormatFloat(c.Lat, 'f', -1, 64),
				strconv.FormatFloat(c.Lon, 'f', -1, 64))
		}
		fmt.Fprintf(w, "\n")
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u >= math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeGraph(f)
}

// DecodeGraph. reads a snapshot written by Encode
func DecodeGraph(in io.Reader) (*Graph, error) {
	bz, err := bzip2.NewReader(in, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}

	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("invalid graph header: expected 2 fields, got %d", len(tokens))
	}

	numVertices, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}

	builder := NewGraphBuilderWithSize(int(numVertices), int(numEdges))

	for i := 0; i < int(numVertices); i++ {
		vertexLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		lat, lon, err := parseVertex(vertexLine)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		if _, err := builder.AddVertex(lat, lon); err != nil {
			return nil, err
		}
	}

	for i := 0; i < int(numEdges); i++ {
		edgeLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		if err := parseEdge(builder, edgeLine); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	return builder.Build(), nil
}

func parseVertex(line string) (float64, float64, error) {
	tokens := fields(line)
	if len(tokens) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields, got %d", len(tokens))
	}
	lat, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func parseEdge(builder *GraphBuilder, line string) error {
	tokens := fields(line)
	if len(tokens) < 5 {
		return fmt.Errorf("expected at least 5 fields, got %d", len(tokens))
	}

	tail, err := ParseIndex(tokens[0])
	if err != nil {
		return err
	}
	head, err := ParseIndex(tokens[1])
	if err != nil {
		return err
	}
	length, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return err
	}
	twoWay, err := strconv.ParseBool(tokens[3])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(tokens[4])
	if err != nil {
		return err
	}
	if n < 0 || len(tokens) != 5+2*n {
		return fmt.Errorf("expected %d geometry points, got %d fields", n, len(tokens)-5)
	}

	geometry := make([]geo.Coordinate, n)
	for i := 0; i < n; i++ {
		lat, err := strconv.ParseFloat(tokens[5+2*i], 64)
		if err != nil {
			return err
		}
		lon, err := strconv.ParseFloat(tokens[6+2*i], 64)
		if err != nil {
			return err
		}
		geometry[i] = geo.NewCoordinate(lat, lon)
	}

	_, err = builder.AddEdge(tail, head, length, geometry, twoWay)
	return err
}
