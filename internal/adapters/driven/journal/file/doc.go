// Package file provides the file-backed journal adapter. The journal
// is an append-only JSONL file under the workspace .designsync
// directory, one entry per line.
package file
