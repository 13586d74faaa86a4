// Package panel serves the node's browser view.
//
// The view is a single page embedded with go:embed. It loads the schema
// document from /api/v1/schema, renders one card per Function with its
// data or config Tags, and then follows the values over /api/v1/ws.
// Edited inputs are sent back over the same socket as a values document.
// A token in the page URL (?token=...) is passed on to both.
package panel
