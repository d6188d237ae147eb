// Package treesitter produces per-line highlight spans for open documents.
// Languages with a tree-sitter grammar are parsed and queried; JSON and JSONC
// are highlighted line by line with patterns.
package treesitter

import (
	"context"
	"math"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Span is a highlighted byte range [StartCol, EndCol) on one line. EndCol
// may exceed the line length for spans that run to the end of the line.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type grammar struct {
	lang  *sitter.Language
	query string
}

var grammars = map[string]grammar{
	"go":   {golang.GetLanguage(), goHighlightQuery},
	"yaml": {yaml.GetLanguage(), yamlHighlightQuery},
	"toml": {toml.GetLanguage(), tomlHighlightQuery},
	"bash": {bash.GetLanguage(), bashHighlightQuery},
}

type document struct {
	lang   string
	tree   *sitter.Tree
	source []byte
}

// Highlighter keeps one parse per document id.
type Highlighter struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
	docs    map[string]*document
}

func New() *Highlighter {
	return &Highlighter{
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
		docs:    make(map[string]*document),
	}
}

// Supports reports whether lang gets any highlighting.
func Supports(lang string) bool {
	if isJSON(lang) {
		return true
	}
	_, ok := grammars[lang]
	return ok
}

func isJSON(lang string) bool {
	return lang == "json" || lang == "jsonc"
}

// Update replaces the text of a document and reparses it. It reports false
// when the language is not supported.
func (h *Highlighter) Update(docID, lang, text string) bool {
	if !Supports(lang) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	doc := &document{lang: lang, source: []byte(text)}
	if g, ok := grammars[lang]; ok {
		parser := h.parsers[lang]
		if parser == nil {
			parser = sitter.NewParser()
			parser.SetLanguage(g.lang)
			h.parsers[lang] = parser
		}
		tree, err := parser.ParseCtx(context.Background(), nil, doc.source)
		if err != nil {
			return false
		}
		doc.tree = tree
		if _, ok := h.queries[lang]; !ok {
			// A query that fails to compile leaves the language unhighlighted.
			q, _ := sitter.NewQuery([]byte(g.query), g.lang)
			h.queries[lang] = q
		}
	}
	h.docs[docID] = doc
	return true
}

// Forget drops a closed document.
func (h *Highlighter) Forget(docID string) {
	h.mu.Lock()
	delete(h.docs, docID)
	h.mu.Unlock()
}

// Highlights returns spans for lines startLine..endLine inclusive.
func (h *Highlighter) Highlights(docID string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	h.mu.Lock()
	doc := h.docs[docID]
	var query *sitter.Query
	if doc != nil {
		query = h.queries[doc.lang]
	}
	h.mu.Unlock()
	if doc == nil {
		return nil
	}

	if isJSON(doc.lang) {
		return jsonHighlights(doc.source, startLine, endLine, doc.lang == "jsonc")
	}
	return queryHighlights(query, doc.tree, doc.source, startLine, endLine)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	if query == nil || tree == nil {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start, end := capture.Node.StartPoint(), capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol, endCol := 0, math.MaxInt32
				if row == int(start.Row) {
					startCol = int(start.Column)
				}
				if row == int(end.Row) {
					endCol = int(end.Column)
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

func jsonHighlights(source []byte, startLine, endLine int, comments bool) map[int][]Span {
	lines := strings.Split(string(source), "\n")
	out := make(map[int][]Span)
	for row := startLine; row <= endLine && row < len(lines); row++ {
		if spans := highlightJSONLine(lines[row], comments); len(spans) > 0 {
			out[row] = spans
		}
	}
	return out
}
