package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// Text fields use the CJK analyzer: the catalog is predominantly Korean
// and whitespace tokenization would make partial-title queries useless.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = cjk.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = cjk.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Subtitle - searchable text
	subtitleFieldMapping := bleve.NewTextFieldMapping()
	subtitleFieldMapping.Analyzer = cjk.AnalyzerName
	subtitleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("subtitle", subtitleFieldMapping)

	// Author - searchable, second-ranked match target
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = cjk.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Publisher - searchable
	publisherFieldMapping := bleve.NewTextFieldMapping()
	publisherFieldMapping.Analyzer = cjk.AnalyzerName
	publisherFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = cjk.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	idFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Category - for exact filtering
	categoryFieldMapping := bleve.NewNumericFieldMapping()
	categoryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("category_id", categoryFieldMapping)

	// Timestamps - for sorting by recency
	pubDateFieldMapping := bleve.NewNumericFieldMapping()
	pubDateFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("pub_date", pubDateFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
