package mapio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/runmap/pkg/runmap"
)

type document struct {
	ID     string   `json:"id"`
	Seed   uint64   `json:"seed"`
	Floors [][]node `json:"floors"`
}

type node struct {
	ID        string          `json:"id"`
	Floor     int             `json:"floor"`
	Column    int             `json:"column"`
	Type      runmap.NodeType `json:"type"`
	Completed bool            `json:"completed,omitempty"`
	Next      []string        `json:"next,omitempty"`
}

func toDocument(m *runmap.Map) document {
	doc := document{ID: m.ID, Seed: m.Seed, Floors: make([][]node, len(m.Floors))}
	for f, floor := range m.Floors {
		nodes := make([]node, len(floor))
		for col, n := range floor {
			nd := node{ID: n.ID, Floor: f, Column: col, Type: n.Type, Completed: n.Completed}
			for _, to := range n.Next() {
				nd.Next = append(nd.Next, to.ID)
			}
			nodes[col] = nd
		}
		doc.Floors[f] = nodes
	}
	return doc
}

// WriteJSON encodes m as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(m *runmap.Map, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalMap returns the JSON encoding of m.
func MarshalMap(m *runmap.Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes m to a JSON file at path.
func ExportJSON(m *runmap.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
