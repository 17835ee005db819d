package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Titles and prose use English stemming. Tags, categories and director names
// use the simple analyzer so "Sci-Fi" and "Nolan" are not stemmed.
// Identifier fields are keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	text := func(field, analyzer string, store, vectors bool) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzer
		fm.Store = store
		fm.IncludeTermVectors = vectors
		docMapping.AddFieldMappingsAt(field, fm)
	}
	numeric := func(field string) {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	text("title", en.AnalyzerName, true, true)
	text("overview", en.AnalyzerName, false, false)
	text("body", en.AnalyzerName, false, false)
	text("genre", en.AnalyzerName, true, false)
	text("director", simple.Name, true, true)
	text("tags", simple.Name, true, true)
	text("categories", simple.Name, true, false)

	text("type", keyword.Name, true, false)
	text("entity_id", keyword.Name, true, false)
	text("movie_id", keyword.Name, true, false)
	text("slug", keyword.Name, true, false)

	numeric("year")
	numeric("updated_at")

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
