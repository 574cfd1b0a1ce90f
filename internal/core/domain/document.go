package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Document is the user's design state: an arbitrary JSON tree of
// maps, slices and scalars. The sync core imposes no schema on it.
//
// The canonical in-memory form is what encoding/json produces when
// decoding into any: map[string]any, []any, string, float64, bool, nil.
// All helpers in this package assume that form; DecodeDocument and
// CloneDocument both return it.
type Document = any

// DecodeDocument parses raw JSON bytes into canonical Document form.
func DecodeDocument(raw []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

// EncodeDocument renders a document as pretty-printed JSON with a
// trailing newline, the format design.json is kept in on disk.
func EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

// CloneDocument returns a deep copy in canonical form.
// Cloning via JSON also normalises values that did not originate
// from a decode (e.g. int literals in tests become float64).
func CloneDocument(doc Document) (Document, error) {
	if doc == nil {
		return nil, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("cloning document: %w", err)
	}
	return DecodeDocument(data)
}

// DocumentsEqual reports structural equality of two documents in
// canonical form. Map key order does not matter; array order does.
func DocumentsEqual(a, b Document) bool {
	return reflect.DeepEqual(a, b)
}
