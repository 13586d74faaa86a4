package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/storage"
)

// setupDoc is the decoded setup document. Sections are kept raw so a
// malformed record only fails itself.
type setupDoc struct {
	Hardware  []map[string]any `json:"hardware"`
	Functions []map[string]any `json:"functions"`
	Links     []linkRecord     `json:"links"`
}

type linkRecord struct {
	Type string     `json:"type"`
	From []linkPair `json:"from"`
	To   []linkPair `json:"to"`
}

type linkPair struct {
	Func string `json:"func"`
	Tag  string `json:"tag"`
}

// setup reads the setup document and builds hardware, Functions and
// Links in that order. The log document is written whatever happens;
// the schema file only when the document could be parsed.
func (h *Handler) setup(ctx context.Context) Result {
	var doc LogDoc
	res := h.build(ctx, &doc)

	h.lastLog = doc
	if err := h.writeJSON(ctx, h.files.Log, doc); err != nil {
		h.logger.Error("writing setup log failed", "file", h.files.Log, "error", err)
		res = Worst(res, FileOpen)
	}

	h.logger.Info("graph built",
		"result", res.String(),
		"hardware", len(h.hardware),
		"functions", len(h.functions),
		"links", len(h.links),
	)
	return res
}

func (h *Handler) build(ctx context.Context, doc *LogDoc) Result {
	raw, err := h.store.Read(ctx, h.files.Setup)
	if err != nil {
		res := FileOpen
		if errors.Is(err, storage.ErrNotFound) {
			res = FileMissing
		}
		h.logger.Error("reading setup failed", "file", h.files.Setup, "error", err)
		doc.File = &FileLog{Name: h.files.Setup, Error: err.Error()}
		return res
	}

	var setup setupDoc
	if err := json.Unmarshal(raw, &setup); err != nil {
		h.logger.Error("decoding setup failed", "file", h.files.Setup, "error", err)
		doc.File = &FileLog{Name: h.files.Setup, Error: err.Error()}
		return JSONSyntax
	}

	res := Done
	res = Worst(res, h.buildHardware(setup.Hardware, doc))
	res = Worst(res, h.buildFunctions(setup.Functions, doc))
	res = Worst(res, h.buildLinks(setup.Links, doc))

	if err := h.saveSchemaDoc(ctx); err != nil {
		h.logger.Error("writing schema failed", "file", h.files.Schema, "error", err)
		res = Worst(res, FileOpen)
	}
	return res
}

// buildHardware creates one instance per hardware type. Repeated
// records of an already built type are ignored.
func (h *Handler) buildHardware(records []map[string]any, doc *LogDoc) Result {
	res := Done
	for _, rec := range records {
		s := function.NewSetup(rec)
		typ := s.Type()
		if !h.hw.Has(typ) {
			h.logger.Error("hardware type not registered", "type", typ)
			doc.Hardware = append(doc.Hardware, map[string]any{"Fault": faultTypeNotFound + typ})
			res = Worst(res, HardwareMissing)
			continue
		}
		if _, built := h.hardware[typ]; built {
			doc.Hardware = append(doc.Hardware, map[string]any{"done": typ + " already created"})
			continue
		}

		built, err := h.hw.Build(s, h.env)
		doc.Hardware = append(doc.Hardware, built.Log)
		if err != nil {
			h.logger.Error("building hardware failed", "type", typ, "error", err)
			res = Worst(res, HardwareMissing)
			continue
		}
		h.hardware[typ] = built.Value
	}
	return res
}

// buildFunctions builds Functions in declaration order. A record whose
// name is already taken is rejected so name lookups stay unambiguous.
func (h *Handler) buildFunctions(records []map[string]any, doc *LogDoc) Result {
	res := Done
	for _, rec := range records {
		s := function.NewSetup(rec)
		typ := s.Type()
		if !h.funcs.Has(typ) {
			h.logger.Error("function type not registered", "type", typ)
			doc.Functions = append(doc.Functions, map[string]any{"Fault": faultTypeNotFound + typ})
			res = Worst(res, FunctionMissing)
			continue
		}
		if name, _ := rec["name"].(string); name != "" && h.funcIndex(name) >= 0 {
			h.logger.Error("function name already used", "name", name, "type", typ)
			doc.Functions = append(doc.Functions, map[string]any{"name": name, "Fault": faultDuplicate})
			res = Worst(res, FunctionMissing)
			continue
		}

		built, err := h.funcs.Build(s, h.env)
		doc.Functions = append(doc.Functions, built.Log)
		if err != nil {
			h.logger.Error("building function failed", "type", typ, "error", err)
			res = Worst(res, FunctionMissing)
			continue
		}
		h.functions = append(h.functions, built.Value)
	}
	return res
}

// buildLinks resolves every endpoint by name. Unresolved endpoints are
// dropped one by one; the rest of the link is kept.
func (h *Handler) buildLinks(records []linkRecord, doc *LogDoc) Result {
	res := Done
	for _, rec := range records {
		typ, ok := linkTypes[rec.Type]
		if !ok {
			h.logger.Error("link type not defined", "type", rec.Type)
			doc.Links = append(doc.Links, LinkLog{Fault: faultTypeNotFound + rec.Type})
			res = Worst(res, LinkTypMissing)
			continue
		}

		link := Link{Type: typ}
		entry := LinkLog{IN: []string{}, OUT: []string{}}
		for _, p := range rec.From {
			if ep, ok := h.resolve(p); ok {
				link.Inputs = append(link.Inputs, ep)
			} else {
				entry.IN = append(entry.IN, failPrefix+p.Func+"_"+p.Tag)
				res = Worst(res, LinkObjMissing)
			}
		}
		for _, p := range rec.To {
			if ep, ok := h.resolve(p); ok {
				link.Outputs = append(link.Outputs, ep)
			} else {
				entry.OUT = append(entry.OUT, failPrefix+p.Func+"_"+p.Tag)
				res = Worst(res, LinkObjMissing)
			}
		}
		doc.Links = append(doc.Links, entry)
		h.links = append(h.links, link)
	}
	return res
}

func (h *Handler) resolve(p linkPair) (Endpoint, bool) {
	fi := h.funcIndex(p.Func)
	if fi < 0 {
		h.logger.Error("function to link not found", "func", p.Func)
		return Endpoint{}, false
	}
	ti := function.TagIndex(h.functions[fi], p.Tag)
	if ti < 0 {
		h.logger.Error("tag to link not found", "func", p.Func, "tag", p.Tag)
		return Endpoint{}, false
	}
	return Endpoint{Func: fi, Tag: ti}, true
}

func (h *Handler) writeJSON(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return h.store.Write(ctx, name, data)
}
