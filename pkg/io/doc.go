// Package io reads and writes the co-purchase JSON document.
//
// # Format
//
// The document has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "B0001", "title": "Espresso Machine", "thumbnailUrl": "https://..."},
//	    {"id": "B0002", "title": "Milk Frother"}
//	  ],
//	  "links": [
//	    {"source": "B0001", "target": "B0002"}
//	  ]
//	}
//
// IDs may be strings or numbers; numbers are kept in their literal form.
// The thumbnail is read from "thumbnailUrl", "thumbnail" or "缩略图", in
// that order of preference, and always written back as "thumbnailUrl".
//
// # Validation
//
// [ReadJSON] and [ImportJSON] fail with an [errors.ErrCodeInvalidGraph]
// error when the document cannot be used as a whole. Callers holding a
// previous graph must keep it on failure; nothing partial is returned.
// Links whose endpoints are not nodes are not validation failures.
//
// # Sources
//
// [Import] accepts a file path or an http(s) URL. Remote documents are
// fetched with retries by [ImportURL].
//
// # Export
//
// [WriteJSON] encodes any report value. [WriteGraph] writes a graph back in
// the input format.
//
// [errors.ErrCodeInvalidGraph]: github.com/matzehuels/cobuy/pkg/errors.ErrCodeInvalidGraph
package io
