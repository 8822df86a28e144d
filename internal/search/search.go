// Package search provides an in-memory full-text index over distilled
// symbols so a result can be queried by name or signature.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/apisurface/distill/internal/distiller"
)

// Hit is one search match.
type Hit struct {
	File      string  `json:"file"`
	Symbol    string  `json:"symbol"`
	Kind      string  `json:"kind"`
	Signature string  `json:"signature"`
	Line      int     `json:"line"`
	Score     float64 `json:"score"`
}

// symbolDoc is the indexed document shape.
type symbolDoc struct {
	File      string `json:"file"`
	Symbol    string `json:"symbol"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
	Doc       string `json:"doc"`
	Line      int    `json:"line"`
}

// Index holds the bleve index for one distillation result.
type Index struct {
	idx bleve.Index
}

// NewIndex builds an in-memory index over every symbol and member in the
// result. Members index under "Symbol.member".
func NewIndex(result *distiller.Result) (*Index, error) {
	mapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	text := bleve.NewTextFieldMapping()
	docMapping.AddFieldMappingsAt("symbol", text)
	docMapping.AddFieldMappingsAt("signature", text)
	docMapping.AddFieldMappingsAt("doc", text)
	mapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, file := range result.Files {
		for _, sym := range file.Exports {
			id := file.Path + "#" + sym.Name
			if err := batch.Index(id, symbolDoc{
				File:      file.Path,
				Symbol:    sym.Name,
				Kind:      string(sym.Kind),
				Signature: sym.Signature,
				Doc:       sym.Doc,
				Line:      sym.Line,
			}); err != nil {
				return nil, fmt.Errorf("indexing %s: %w", id, err)
			}
			for _, m := range sym.Members {
				mid := id + "." + m.Name
				if err := batch.Index(mid, symbolDoc{
					File:      file.Path,
					Symbol:    sym.Name + "." + m.Name,
					Kind:      string(m.Kind),
					Signature: m.Signature,
					Doc:       m.Doc,
					Line:      m.Line,
				}); err != nil {
					return nil, fmt.Errorf("indexing %s: %w", mid, err)
				}
			}
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("committing search index: %w", err)
	}

	return &Index{idx: idx}, nil
}

// Query runs a match query and returns up to limit hits.
func (s *Index) Query(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"file", "symbol", "kind", "signature", "line"}

	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["file"].(string); ok {
			hit.File = v
		}
		if v, ok := h.Fields["symbol"].(string); ok {
			hit.Symbol = v
		}
		if v, ok := h.Fields["kind"].(string); ok {
			hit.Kind = v
		}
		if v, ok := h.Fields["signature"].(string); ok {
			hit.Signature = v
		}
		if v, ok := h.Fields["line"].(float64); ok {
			hit.Line = int(v)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (s *Index) Close() error {
	return s.idx.Close()
}
