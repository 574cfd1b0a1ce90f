// Package httpapi provides the reference remote store server: a gin
// engine exposing login and the versioned /v1/workspaces API over a
// driving.Mutator. Run by `designsync serve`.
package httpapi
