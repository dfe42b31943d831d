// Package mapio provides JSON import and export for generated run maps.
//
// # JSON Format
//
// A map is stored as its id, the seed it was generated from, and its floors
// in order. Each floor lists its nodes in column order, and each node lists
// its forward edges in the order they were added:
//
//	{
//	  "id": "5b2c8f0e-...",
//	  "seed": 42,
//	  "floors": [
//	    [
//	      {"id": "f0c0", "floor": 0, "column": 0, "type": "battle", "next": ["f1c0"]},
//	      {"id": "f0c1", "floor": 0, "column": 1, "type": "battle", "next": ["f1c0"]}
//	    ],
//	    [
//	      {"id": "f1c0", "floor": 1, "column": 0, "type": "boss"}
//	    ]
//	  ]
//	}
//
// Column order is preserved exactly. The floor and column fields are
// redundant with the position of a node and are checked on import.
//
// # Import
//
// Use [ImportJSON] to read a map from a file path, or [ReadJSON] to read
// from any io.Reader. Both rebuild the map with [runmap.Restore] and then
// run [runmap.Map.Validate], so a decoded map satisfies every structural
// invariant a freshly generated one does. Errors carry an INVALID_FORMAT code
// for malformed input and INVALID_MAP for structurally broken maps.
//
// # Export
//
// Use [ExportJSON] to write a map to a file, or [WriteJSON] to write to any
// io.Writer. [MarshalMap] returns the encoded bytes, which the generation
// runner uses as its cache payload.
package mapio
