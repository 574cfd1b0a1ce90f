package domain

import (
	"reflect"
	"sort"
	"strconv"
)

// PatchOpKind identifies the kind of structural patch operation.
type PatchOpKind string

const (
	// OpAdd inserts a value at a path that does not yet exist.
	OpAdd PatchOpKind = "add"
	// OpRemove deletes the value at a path.
	OpRemove PatchOpKind = "remove"
	// OpReplace swaps the value at an existing path.
	OpReplace PatchOpKind = "replace"
)

// PatchOp is one structural edit at a tree path. Paths are slices of
// segments; a segment addressing an array element is its decimal index.
// An empty path addresses the document root.
type PatchOp struct {
	Op    PatchOpKind `json:"op"`
	Path  []string    `json:"path"`
	Value any         `json:"value,omitempty"`
}

// Diff computes the ordered patch list transforming oldDoc into newDoc.
// Both documents must be in canonical form (see Document). An empty
// result means the documents are structurally equal; the sync loop
// uses that as its no-op signal.
//
// Array diffs are positional: common indices are recursed into, extra
// trailing elements become adds, missing ones become removes (emitted
// in descending index order so sequential application stays valid).
func Diff(oldDoc, newDoc Document) []PatchOp {
	return diffValue(nil, oldDoc, newDoc)
}

func diffValue(path []string, a, b any) []PatchOp {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return []PatchOp{{Op: OpReplace, Path: clonePath(path), Value: b}}
		}
		return diffMap(path, av, bv)

	case []any:
		bv, ok := b.([]any)
		if !ok {
			return []PatchOp{{Op: OpReplace, Path: clonePath(path), Value: b}}
		}
		return diffSlice(path, av, bv)

	default:
		if reflect.DeepEqual(a, b) {
			return nil
		}
		return []PatchOp{{Op: OpReplace, Path: clonePath(path), Value: b}}
	}
}

func diffMap(path []string, a, b map[string]any) []PatchOp {
	// Sorted key order keeps the diff deterministic.
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var ops []PatchOp
	for _, k := range keys {
		child := append(path, k)
		av, inA := a[k]
		bv, inB := b[k]
		switch {
		case inA && !inB:
			ops = append(ops, PatchOp{Op: OpRemove, Path: clonePath(child)})
		case !inA && inB:
			ops = append(ops, PatchOp{Op: OpAdd, Path: clonePath(child), Value: bv})
		default:
			ops = append(ops, diffValue(child, av, bv)...)
		}
	}
	return ops
}

func diffSlice(path []string, a, b []any) []PatchOp {
	var ops []PatchOp
	common := len(a)
	if len(b) < common {
		common = len(b)
	}
	for i := 0; i < common; i++ {
		ops = append(ops, diffValue(append(path, strconv.Itoa(i)), a[i], b[i])...)
	}
	for i := common; i < len(b); i++ {
		ops = append(ops, PatchOp{Op: OpAdd, Path: clonePath(append(path, strconv.Itoa(i))), Value: b[i]})
	}
	// Removes run from the tail down so earlier indices stay stable.
	for i := len(a) - 1; i >= common; i-- {
		ops = append(ops, PatchOp{Op: OpRemove, Path: clonePath(append(path, strconv.Itoa(i)))})
	}
	return ops
}

// Apply returns a new document with patches applied in order. The input
// document is not modified. Application fails closed: any path that
// does not exist on the target yields a *PatchApplicationError.
func Apply(doc Document, patches []PatchOp) (Document, error) {
	result, err := CloneDocument(doc)
	if err != nil {
		return nil, err
	}
	for _, op := range patches {
		result, err = applyOp(result, op)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Invert computes the patch list that undoes patches, given the document
// they were diffed against. The result, applied to Apply(oldDoc, patches),
// restores oldDoc. Fails with *PatchApplicationError if patches do not
// fit oldDoc.
func Invert(patches []PatchOp, oldDoc Document) ([]PatchOp, error) {
	working, err := CloneDocument(oldDoc)
	if err != nil {
		return nil, err
	}

	inverse := make([]PatchOp, 0, len(patches))
	for _, op := range patches {
		var inv PatchOp
		switch op.Op {
		case OpAdd:
			inv = PatchOp{Op: OpRemove, Path: clonePath(op.Path)}
		case OpRemove, OpReplace:
			prev, err := valueAt(working, op.Path)
			if err != nil {
				return nil, err
			}
			kind := OpReplace
			if op.Op == OpRemove {
				kind = OpAdd
			}
			inv = PatchOp{Op: kind, Path: clonePath(op.Path), Value: prev}
		default:
			return nil, &PatchApplicationError{Op: op.Op, Path: op.Path, Reason: "unknown operation"}
		}

		// Advance the working copy so later captures see intermediate state.
		working, err = applyOp(working, op)
		if err != nil {
			return nil, err
		}
		inverse = append(inverse, inv)
	}

	// Undo runs in reverse order of the original edits.
	for i, j := 0, len(inverse)-1; i < j; i, j = i+1, j-1 {
		inverse[i], inverse[j] = inverse[j], inverse[i]
	}
	return inverse, nil
}

// applyOp applies a single op and returns the (possibly new) root value.
func applyOp(doc any, op PatchOp) (any, error) {
	if len(op.Path) == 0 {
		if op.Op != OpReplace {
			return nil, &PatchApplicationError{Op: op.Op, Path: op.Path, Reason: "only replace is valid at the document root"}
		}
		return op.Value, nil
	}
	return applyAt(doc, op.Path, op)
}

func applyAt(v any, path []string, op PatchOp) (any, error) {
	seg := path[0]

	if len(path) > 1 {
		child, err := childOf(v, seg, op)
		if err != nil {
			return nil, err
		}
		updated, err := applyAt(child, path[1:], op)
		if err != nil {
			return nil, err
		}
		return setChild(v, seg, updated, op)
	}

	switch container := v.(type) {
	case map[string]any:
		_, exists := container[seg]
		switch op.Op {
		case OpAdd:
			if exists {
				return nil, failure(op, "key already present")
			}
			container[seg] = op.Value
		case OpRemove:
			if !exists {
				return nil, failure(op, "key not present")
			}
			delete(container, seg)
		case OpReplace:
			if !exists {
				return nil, failure(op, "key not present")
			}
			container[seg] = op.Value
		}
		return container, nil

	case []any:
		idx, err := arrayIndex(seg, op)
		if err != nil {
			return nil, err
		}
		switch op.Op {
		case OpAdd:
			if idx > len(container) {
				return nil, failure(op, "index beyond end of array")
			}
			container = append(container, nil)
			copy(container[idx+1:], container[idx:])
			container[idx] = op.Value
		case OpRemove:
			if idx >= len(container) {
				return nil, failure(op, "index beyond end of array")
			}
			container = append(container[:idx], container[idx+1:]...)
		case OpReplace:
			if idx >= len(container) {
				return nil, failure(op, "index beyond end of array")
			}
			container[idx] = op.Value
		}
		return container, nil

	default:
		return nil, failure(op, "path traverses a scalar")
	}
}

// valueAt resolves a path on a document without modifying it.
func valueAt(doc any, path []string) (any, error) {
	v := doc
	for _, seg := range path {
		switch container := v.(type) {
		case map[string]any:
			child, ok := container[seg]
			if !ok {
				return nil, &PatchApplicationError{Op: OpReplace, Path: path, Reason: "key not present"}
			}
			v = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(container) {
				return nil, &PatchApplicationError{Op: OpReplace, Path: path, Reason: "invalid array index"}
			}
			v = container[idx]
		default:
			return nil, &PatchApplicationError{Op: OpReplace, Path: path, Reason: "path traverses a scalar"}
		}
	}
	return v, nil
}

func childOf(v any, seg string, op PatchOp) (any, error) {
	switch container := v.(type) {
	case map[string]any:
		child, ok := container[seg]
		if !ok {
			return nil, failure(op, "intermediate key not present")
		}
		return child, nil
	case []any:
		idx, err := arrayIndex(seg, op)
		if err != nil {
			return nil, err
		}
		if idx >= len(container) {
			return nil, failure(op, "intermediate index beyond end of array")
		}
		return container[idx], nil
	default:
		return nil, failure(op, "path traverses a scalar")
	}
}

func setChild(v any, seg string, child any, op PatchOp) (any, error) {
	switch container := v.(type) {
	case map[string]any:
		container[seg] = child
		return container, nil
	case []any:
		idx, err := arrayIndex(seg, op)
		if err != nil {
			return nil, err
		}
		container[idx] = child
		return container, nil
	default:
		return nil, failure(op, "path traverses a scalar")
	}
}

func arrayIndex(seg string, op PatchOp) (int, error) {
	idx, err := strconv.Atoi(seg)
	if err != nil || idx < 0 {
		return 0, failure(op, "invalid array index "+strconv.Quote(seg))
	}
	return idx, nil
}

func failure(op PatchOp, reason string) *PatchApplicationError {
	return &PatchApplicationError{Op: op.Op, Path: op.Path, Reason: reason}
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}
