package mapping

import (
	"regexp"

	"github.com/josephhbu/ChatDB/engine/models"
)

// IntentPattern pairs an intent with the recognizer that selects it.
type IntentPattern struct {
	Intent  models.Intent
	Pattern *regexp.Regexp
}

// IntentPatterns is evaluated top to bottom against case-folded input; the
// first match wins. The order is the priority: join phrasing contains
// "show ... that the ... is" and must beat basic-select, and "total ... by"
// must beat "count ... by".
var IntentPatterns = []IntentPattern{
	{models.IntentJoinQuery, regexp.MustCompile(`\b(?:show|get)\b\s+\w+\s+\bwhich has\b\s+\w+\s+\bthat the\b\s+\w+\s+(?:is|=)\s+\S+`)},
	{models.IntentTotalByCategory, regexp.MustCompile(`\btotal\b.*(?:\bby\b|\bwhere\b)`)},
	{models.IntentFilterSort, regexp.MustCompile(`\bfind\b.*\bwhere\b.*\border by\b`)},
	{models.IntentCountByCategory, regexp.MustCompile(`\bcount\b.*\bby\b`)},
	{models.IntentAverageByCategory, regexp.MustCompile(`\b(?:average|mean)\b.*\b(?:by|of)\b`)},
	{models.IntentFilterByDateRange, regexp.MustCompile(`\bshow\b.*\b(?:from|between)\s+'?\d{4}-\d{2}-\d{2}'?\s+(?:to|and)\b`)},
	{models.IntentBasicSelect, regexp.MustCompile(`\b(?:get|show|find)\b.*\bwhere\b`)},
	{models.IntentListContainers, regexp.MustCompile(`\b(?:show|list)\b.*\b(?:tables|collections)\b`)},
	{models.IntentDescribeAttributes, regexp.MustCompile(`\btable\b.*\battributes\b|\battributes\b.*\btable\b|^describe\b`)},
}

// Superlatives trigger the top-n intent when no ordered recognizer matched.
var Superlatives = []string{"highest", "lowest", "largest", "smallest"}

// AscendingExtremes are the superlatives that sort smallest first.
var AscendingExtremes = map[string]bool{
	"lowest":   true,
	"smallest": true,
}

// IntentKeywords feeds "did you mean" suggestions for unrecognized input.
var IntentKeywords = []string{
	"total", "count", "average", "mean", "find", "where", "order", "show",
	"get", "list", "tables", "collections", "table", "attributes", "describe",
	"highest", "lowest", "largest", "smallest", "between", "which",
}

// ============================================================================
// EXTRACTION RECOGNIZERS
// ============================================================================

// ExtractionPatterns holds the anchored recognizers per intent. Alternatives
// are tried in order; a named group that did not participate is left unbound.
var ExtractionPatterns = map[models.Intent][]*regexp.Regexp{
	models.IntentTotalByCategory: {
		regexp.MustCompile(`(?i)^(?:(?:show|get|find)(?: me)? )?(?:the )?total (?:of )?(?P<measure>\w+) by (?P<category>\w+) (?:from|in) (?P<table>\w+)$`),
	},
	models.IntentFilterSort: {
		regexp.MustCompile(`(?i)^find (?P<columns>\*|\w+(?:\s*,\s*\w+)*) (?:from|in) (?P<table>\w+) where (?P<condition>.+?) order by (?P<sort_column>\w+)(?: (?P<sort_order>asc|desc|ascending|descending))?$`),
	},
	models.IntentCountByCategory: {
		regexp.MustCompile(`(?i)^(?:(?:show|get|find)(?: me)? )?(?:the )?count (?:of )?(?:(?:all|the) )?(?P<table>\w+) by (?P<category>\w+)$`),
	},
	models.IntentAverageByCategory: {
		regexp.MustCompile(`(?i)^(?:(?:show|get|find)(?: me)? )?(?:the )?(?:average|mean) (?:of )?(?P<measure>\w+) by (?P<category>\w+) (?:from|in) (?P<table>\w+)$`),
	},
	models.IntentFilterByDateRange: {
		regexp.MustCompile(`(?i)^show (?:(?:all|the) )?(?P<table>\w+)(?: where (?P<date_column>\w+)(?: is)?)? (?:from|between) '?(?P<start_date>\d{4}-\d{2}-\d{2})'? (?:to|and) '?(?P<end_date>\d{4}-\d{2}-\d{2})'?$`),
	},
	models.IntentTopNByMeasure: {
		regexp.MustCompile(`(?i)^(?:(?:get|show|find|list)(?: me)? )?(?:the )?(?:top )?(?P<n>\d+) (?P<subject>\w+) with (?:the )?(?P<extreme>highest|lowest|largest|smallest) (?:(?P<aggregate>count|number) of )?(?P<object>\w+)$`),
	},
	models.IntentJoinQuery: {
		regexp.MustCompile(`(?i)^(?:show|get)(?: me)? (?P<table1>\w+) which has (?P<table2>\w+) that the (?P<column>\w+) (?:is|=) (?P<value>'[^']*'|"[^"]*"|\S+)$`),
	},
	models.IntentBasicSelect: {
		regexp.MustCompile(`(?i)^(?:get|show|find)(?: me)? (?P<columns>\*|\w+(?:\s*,\s*\w+)*) (?:of|from|in) (?P<table>\w+) where (?P<condition>.+)$`),
		regexp.MustCompile(`(?i)^(?:get|show|find)(?: me)? (?:(?:all|the) )?(?P<table>\w+) where (?P<condition>.+)$`),
	},
	models.IntentListContainers: {
		regexp.MustCompile(`(?i)^(?:show|list)(?: me)? (?:all )?(?:the )?(?:tables|collections)$`),
	},
	models.IntentDescribeAttributes: {
		regexp.MustCompile(`(?i)^(?:(?:show|list|get)(?: me)? )?(?:the )?table (?P<table>\w+)(?:'s)? attributes$`),
		regexp.MustCompile(`(?i)^(?:(?:show|list|get)(?: me)? )?(?:the )?attributes of (?:the )?table (?P<table>\w+)$`),
		regexp.MustCompile(`(?i)^describe (?:table |collection )?(?P<table>\w+)$`),
	},
}

// RequiredCaptures are the slots a recognizer must bind for its record to be complete.
var RequiredCaptures = map[models.Intent][]string{
	models.IntentTotalByCategory:    {"measure", "category", "table"},
	models.IntentFilterSort:         {"columns", "table", "condition", "sort_column"},
	models.IntentCountByCategory:    {"table", "category"},
	models.IntentAverageByCategory:  {"measure", "category", "table"},
	models.IntentFilterByDateRange:  {"table", "start_date", "end_date"},
	models.IntentTopNByMeasure:      {"n", "subject", "extreme", "object"},
	models.IntentJoinQuery:          {"table1", "table2", "column", "value"},
	models.IntentBasicSelect:        {"table", "condition"},
	models.IntentListContainers:     {},
	models.IntentDescribeAttributes: {"table"},
}

// TableSlots are singularized by the extractor.
var TableSlots = []string{"table", "table1", "table2"}
