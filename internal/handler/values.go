package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/storage"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Keys of the values documents.
const (
	keyElements = "elements"
	keyData     = "data"
	keyConfig   = "config"
)

// ValuesDoc is the document exchanged with clients and stored in the
// values file: {"elements": {<function>: {...}}}.
type ValuesDoc struct {
	Elements map[string]map[string]any `json:"elements"`
}

// Values returns every Function's readable Tags split into "data" and
// "config", the shape served to web clients.
func (h *Handler) Values(mask tag.Access) ValuesDoc {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc := ValuesDoc{Elements: make(map[string]map[string]any, len(h.functions))}
	for _, f := range h.functions {
		doc.Elements[f.Name()] = map[string]any{
			keyData:   function.ValuesByUsage(f, tag.WebData, mask),
			keyConfig: function.ValuesByUsage(f, tag.WebConfig, mask),
		}
	}
	return doc
}

// SetValues applies doc to the live graph and returns the number of
// Tags written. Each Function's entry may be flat ({tag: value}) or
// split into "data" and "config" objects. Unknown Functions and Tags
// are skipped.
func (h *Handler) SetValues(doc ValuesDoc, mask tag.Access) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setValues(doc, mask)
}

func (h *Handler) setValues(doc ValuesDoc, mask tag.Access) int {
	n := 0
	for name, values := range doc.Elements {
		i := h.funcIndex(name)
		if i < 0 {
			h.logger.Debug("values for unknown function skipped", "func", name)
			continue
		}
		n += function.SetValues(h.functions[i], flatten(values), mask)
	}
	return n
}

// flatten merges nested "data" and "config" objects into one map.
func flatten(values map[string]any) map[string]any {
	data, hasData := values[keyData].(map[string]any)
	cfg, hasCfg := values[keyConfig].(map[string]any)
	if !hasData && !hasCfg {
		return values
	}
	out := make(map[string]any, len(data)+len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// saveValues writes every Save-permitted Data and Config Tag to the
// values file.
func (h *Handler) saveValues(ctx context.Context) Result {
	doc := ValuesDoc{Elements: make(map[string]map[string]any, len(h.functions))}
	for _, f := range h.functions {
		doc.Elements[f.Name()] = function.ValuesByUsage(f, tag.Data|tag.Config, tag.Save)
	}
	if err := h.writeJSON(ctx, h.files.Values, doc); err != nil {
		h.logger.Error("writing values failed", "file", h.files.Values, "error", err)
		return FileOpen
	}
	return Done
}

// loadValues restores the values file into the live graph. A missing
// or malformed file aborts the load and leaves the graph untouched.
func (h *Handler) loadValues(ctx context.Context) Result {
	raw, err := h.store.Read(ctx, h.files.Values)
	if errors.Is(err, storage.ErrNotFound) {
		h.logger.Info("no values file to load", "file", h.files.Values)
		return FileMissing
	}
	if err != nil {
		h.logger.Error("reading values failed", "file", h.files.Values, "error", err)
		return FileOpen
	}

	var doc ValuesDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		h.logger.Error("decoding values failed", "file", h.files.Values, "error", err)
		return JSONSyntax
	}
	n := h.setValues(doc, tag.Save)
	h.logger.Debug("values loaded", "tags", n)
	return Done
}

// Schema returns the schema document of the live graph.
func (h *Handler) Schema() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.schema()
}

// schema encodes {<function>: <schema>} keeping declaration order,
// which a Go map would lose.
func (h *Handler) schema() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range h.functions {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name())
		if err != nil {
			return nil, fmt.Errorf("encoding function name: %w", err)
		}
		body, err := json.Marshal(function.WriteSchema(f))
		if err != nil {
			return nil, fmt.Errorf("encoding schema of %s: %w", f.Name(), err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *Handler) saveSchemaDoc(ctx context.Context) error {
	data, err := h.schema()
	if err != nil {
		return err
	}
	return h.store.Write(ctx, h.files.Schema, data)
}

func (h *Handler) saveSchema(ctx context.Context) Result {
	if err := h.saveSchemaDoc(ctx); err != nil {
		h.logger.Error("writing schema failed", "file", h.files.Schema, "error", err)
		return FileOpen
	}
	return Done
}
