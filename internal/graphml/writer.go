// Package graphml serializes an interaction graph to GraphML, the XML
// graph-exchange format. Attribute keys are declared up front with types
// inferred from the attribute values; the attribute type system has no
// date/time type, so the graph must be timestamp-normalized before writing.
package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/forum-graph-exporter/internal/graph"
)

const (
	xmlns          = "http://graphml.graphdrawing.org/xmlns"
	xmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd"
)

type xmlGraphML struct {
	XMLName        xml.Name `xml:"graphml"`
	XMLNS          string   `xml:"xmlns,attr"`
	XSI            string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	Keys           []xmlKey `xml:"key"`
	Graph          xmlGraph `xml:"graph"`
}

type xmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type xmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data,omitempty"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Write serializes the graph as GraphML with edgedefault="directed".
// Nodes are emitted in user-id order and edges in (source, target) order so
// output is byte-stable across runs. An attribute value of a type the
// format cannot carry is a fatal error.
func Write(w io.Writer, ig *graph.InteractionGraph) error {
	nodes := ig.Nodes()
	edges := ig.Edges()

	nodeKeys, err := collectKeys("node", func(yield func(map[string]any)) {
		for _, n := range nodes {
			yield(n.Attrs)
		}
	})
	if err != nil {
		return err
	}
	edgeKeys, err := collectKeys("edge", func(yield func(map[string]any)) {
		for _, e := range edges {
			yield(e.Attrs)
		}
	})
	if err != nil {
		return err
	}

	doc := xmlGraphML{
		XMLNS:          xmlns,
		XSI:            xmlnsXSI,
		SchemaLocation: schemaLocation,
		Graph:          xmlGraph{EdgeDefault: "directed"},
	}
	keyIDs := make(map[string]string)
	for i, k := range append(nodeKeys, edgeKeys...) {
		k.ID = fmt.Sprintf("d%d", i)
		keyIDs[k.For+"/"+k.Name] = k.ID
		doc.Keys = append(doc.Keys, k)
	}

	for _, n := range nodes {
		xn := xmlNode{ID: strconv.FormatInt(n.UserID, 10)}
		xn.Data, err = renderAttrs("node", n.Attrs, keyIDs)
		if err != nil {
			return fmt.Errorf("node %d: %w", n.UserID, err)
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, xn)
	}

	for _, e := range edges {
		xe := xmlEdge{
			Source: strconv.FormatInt(e.F.ID(), 10),
			Target: strconv.FormatInt(e.T.ID(), 10),
		}
		xe.Data, err = renderAttrs("edge", e.Attrs, keyIDs)
		if err != nil {
			return fmt.Errorf("edge %d->%d: %w", e.F.ID(), e.T.ID(), err)
		}
		doc.Graph.Edges = append(doc.Graph.Edges, xe)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graphml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteFile serializes the graph to path, creating parent directories.
func WriteFile(path string, ig *graph.InteractionGraph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, ig); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// collectKeys walks every attribute bag and produces one <key> declaration
// per attribute name, in sorted name order. A name seen with conflicting
// value types degrades to the string type.
func collectKeys(domain string, each func(yield func(map[string]any))) ([]xmlKey, error) {
	types := make(map[string]string)
	var walkErr error
	each(func(attrs map[string]any) {
		if walkErr != nil {
			return
		}
		for name, value := range attrs {
			t, err := attrType(value)
			if err != nil {
				walkErr = fmt.Errorf("attribute %q: %w", name, err)
				return
			}
			if prev, ok := types[name]; ok && prev != t {
				types[name] = "string"
			} else if !ok {
				types[name] = t
			}
		}
	})
	if walkErr != nil {
		return nil, walkErr
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]xmlKey, 0, len(names))
	for _, name := range names {
		keys = append(keys, xmlKey{For: domain, Name: name, Type: types[name]})
	}
	return keys, nil
}

func renderAttrs(domain string, attrs map[string]any, keyIDs map[string]string) ([]xmlData, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]xmlData, 0, len(names))
	for _, name := range names {
		value, err := attrValue(attrs[name])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		data = append(data, xmlData{Key: keyIDs[domain+"/"+name], Value: value})
	}
	return data, nil
}

func attrType(v any) (string, error) {
	switch v.(type) {
	case string:
		return "string", nil
	case int, int32, int64:
		return "long", nil
	case float32, float64:
		return "double", nil
	case bool:
		return "boolean", nil
	case time.Time:
		return "", fmt.Errorf("time value was not normalized before serialization")
	default:
		return "", fmt.Errorf("unsupported attribute type %T", v)
	}
}

func attrValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case time.Time:
		return "", fmt.Errorf("time value was not normalized before serialization")
	default:
		return "", fmt.Errorf("unsupported attribute type %T", v)
	}
}
