// Package storage persists the handler's named documents.
//
// A document is an opaque byte blob addressed by file name
// ("/usrSetup.json", "/usrValues.json", ...). Two backends implement Store:
//
//   - FileStore writes each document to a directory, replacing files
//     atomically through a temporary file and rename
//   - SQLiteStore keeps documents in the node_files table of the node
//     database
//
// RunRecorder appends lifecycle command outcomes to the lifecycle_runs
// table so operators can see when the node was last rebuilt.
package storage
