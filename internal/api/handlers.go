package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chordworks/chartgen"
)

type extractRequest struct {
	// Input is the logical source path recorded in the manifest
	Input string `json:"input"`
	// Content is the raw markdown document
	Content string `json:"content"`
	// Types optionally restricts extraction (empty = all four)
	Types []chartgen.BlockType `json:"types,omitempty"`
	// NoDetect disables heuristic progression detection
	NoDetect bool `json:"noDetect,omitempty"`
}

// handleExtract runs one extraction pass over a markdown document and
// responds with the manifest describing it. Output names are the
// deterministic suggestions; no rendering happens server-side.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	for _, t := range req.Types {
		if !chartgen.KnownType(t) {
			jsonError(w, "unrecognized block type: "+string(t), http.StatusBadRequest)
			return
		}
	}

	extractor := chartgen.NewExtractor(chartgen.ExtractOptions{
		Types:    req.Types,
		NoDetect: req.NoDetect || !s.cfg.AutoDetect,
	})

	doc, err := extractor.Extract(bytes.NewReader([]byte(req.Content)), chartgen.MetaData{Source: req.Input})
	if err != nil {
		jsonError(w, "extract error: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	outputs := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		outputs = append(outputs, chartgen.SuggestFileName(b)+".svg")
	}

	manifest, err := chartgen.EncodeManifest(req.Input, doc.Blocks, outputs, time.Now())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, manifest)
}

// handleManifestDecode reconstructs typed blocks from a persisted manifest.
// An unrecognized type fails the whole request; no partial results.
func (s *Server) handleManifestDecode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	manifest, err := chartgen.ParseManifest(r.Body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks, err := manifest.Blocks()
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockJSON(b))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"input":  manifest.Input,
		"count":  len(blocks),
		"blocks": out,
	})
}

// blockJSON flattens a block for the decode response, one shape per variant.
func blockJSON(b chartgen.Block) map[string]any {
	out := map[string]any{
		"index": b.Occurrence(),
		"type":  b.Type(),
	}
	if t := b.BlockTitle(); t != "" {
		out["title"] = t
	}
	if loc := b.Location(); loc != nil {
		out["source"] = loc
	}

	switch v := b.(type) {
	case *chartgen.TableBlock:
		out["caption"] = v.Caption
		out["headers"] = v.Headers
		out["rows"] = v.Rows
	case *chartgen.ChordProgressionBlock:
		out["key"] = v.Key
		out["chords"] = v.Chords
		out["note"] = v.Note
	case *chartgen.DegreeProgressionBlock:
		out["key"] = v.Key
		out["degrees"] = v.Degrees
		out["note"] = v.Note
	case *chartgen.ScoreBlock:
		out["key"] = v.Key
		out["chords"] = v.Chords
		out["bass"] = v.Bass
		out["note"] = v.Note
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
