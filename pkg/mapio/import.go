package mapio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap"
)

// ReadJSON decodes a JSON map from r and validates it.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, names an
// unknown node type, or has floor and column fields that disagree with the
// node's position. It returns an INVALID_MAP error if the map cannot be
// rebuilt or fails [runmap.Map.Validate]. The underlying runmap sentinel
// errors stay reachable through errors.Is.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*runmap.Map, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "decode map")
	}

	floors := make([][]runmap.NodeRecord, len(doc.Floors))
	for f, nodes := range doc.Floors {
		recs := make([]runmap.NodeRecord, len(nodes))
		for col, n := range nodes {
			if n.Floor != f || n.Column != col {
				return nil, rerrors.New(rerrors.ErrCodeInvalidFormat,
					"node %s: stored at floor %d column %d but placed at floor %d column %d",
					n.ID, n.Floor, n.Column, f, col)
			}
			recs[col] = runmap.NodeRecord{ID: n.ID, Type: n.Type, Completed: n.Completed, Next: n.Next}
		}
		floors[f] = recs
	}

	m, err := runmap.Restore(doc.ID, doc.Seed, floors)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidMap, err, "restore map %s", doc.ID)
	}
	if err := m.Validate(); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidMap, err, "map %s", doc.ID)
	}
	return m, nil
}

// UnmarshalMap decodes a map produced by [MarshalMap].
func UnmarshalMap(data []byte) (*runmap.Map, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads and validates the JSON map file at path.
// A missing file yields a FILE_NOT_FOUND error.
func ImportJSON(path string) (*runmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
