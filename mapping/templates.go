package mapping

import "github.com/josephhbu/ChatDB/engine/models"

// TemplateDefinition is the static form of a query template. Tabular
// definitions fill Pattern; document definitions fill Stages (aggregate) or
// Command (database command). Placeholders are written {{slot}}.
type TemplateDefinition struct {
	Name        string        `yaml:"name"`
	Intent      models.Intent `yaml:"intent"`
	Pattern     string        `yaml:"pattern,omitempty"`
	Stages      []string      `yaml:"stages,omitempty"`
	Command     string        `yaml:"command,omitempty"`
	Description string        `yaml:"description"`
}

// Template names shared by both dialects.
const (
	TemplateTotalByCategory    = "total_by_category"
	TemplateFilterSort         = "filter_sort"
	TemplateCountByCategory    = "count_by_category"
	TemplateAverageByCategory  = "average_by_category"
	TemplateFilterByDateRange  = "filter_by_date_range"
	TemplateTopNTable          = "top_n_by_measure_table"
	TemplateTopNCount          = "top_n_by_measure_count"
	TemplateTopNNoTable        = "top_n_by_measure_no_table"
	TemplateJoinQuery          = "join_query"
	TemplateBasicSelect        = "basic_select"
	TemplateListContainers     = "list_containers"
	TemplateDescribeAttributes = "describe_attributes"
)

// IntentTemplates maps each intent onto the template it renders with.
// Top-n is absent because the builder picks one of three shapes.
var IntentTemplates = map[models.Intent]string{
	models.IntentTotalByCategory:    TemplateTotalByCategory,
	models.IntentFilterSort:         TemplateFilterSort,
	models.IntentCountByCategory:    TemplateCountByCategory,
	models.IntentAverageByCategory:  TemplateAverageByCategory,
	models.IntentFilterByDateRange:  TemplateFilterByDateRange,
	models.IntentJoinQuery:          TemplateJoinQuery,
	models.IntentBasicSelect:        TemplateBasicSelect,
	models.IntentListContainers:     TemplateListContainers,
	models.IntentDescribeAttributes: TemplateDescribeAttributes,
}

// ============================================================================
// TABULAR (MySQL-compatible SQL)
// ============================================================================

var TabularTemplates = []TemplateDefinition{
	{
		Name:        TemplateTotalByCategory,
		Intent:      models.IntentTotalByCategory,
		Pattern:     "SELECT {{category}}, SUM({{measure}}) AS total FROM {{table}} GROUP BY {{category}}",
		Description: "total {{measure}} by {{category}} from {{table}}",
	},
	{
		Name:        TemplateFilterSort,
		Intent:      models.IntentFilterSort,
		Pattern:     "SELECT {{columns}} FROM {{table}} WHERE {{where}} ORDER BY {{sort_column}} {{sort_order}}",
		Description: "find {{columns}} from {{table}} where {{condition}} order by {{sort_column}} {{sort_order}}",
	},
	{
		Name:        TemplateCountByCategory,
		Intent:      models.IntentCountByCategory,
		Pattern:     "SELECT {{category}}, COUNT(*) AS count FROM {{table}} GROUP BY {{category}}",
		Description: "count {{table}} by {{category}}",
	},
	{
		Name:        TemplateAverageByCategory,
		Intent:      models.IntentAverageByCategory,
		Pattern:     "SELECT {{category}}, AVG({{measure}}) AS average FROM {{table}} GROUP BY {{category}}",
		Description: "average {{measure}} by {{category}} from {{table}}",
	},
	{
		Name:        TemplateFilterByDateRange,
		Intent:      models.IntentFilterByDateRange,
		Pattern:     "SELECT * FROM {{table}} WHERE {{date_column}} BETWEEN '{{start_date}}' AND '{{end_date}}'",
		Description: "show {{table}} where {{date_column}} is between {{start_date}} and {{end_date}}",
	},
	{
		Name:        TemplateTopNTable,
		Intent:      models.IntentTopNByMeasure,
		Pattern:     "SELECT * FROM {{table}} ORDER BY {{measure}} {{sort_order}} LIMIT {{n}}",
		Description: "get me {{n}} {{table}} with {{extreme}} {{measure}}",
	},
	{
		Name:        TemplateTopNCount,
		Intent:      models.IntentTopNByMeasure,
		Pattern:     "SELECT {{category}}, COUNT(*) AS counting FROM {{table}} GROUP BY {{category}} ORDER BY counting {{sort_order}} LIMIT {{n}}",
		Description: "get me {{n}} {{category}} with {{extreme}} count of {{table}}",
	},
	{
		Name:        TemplateTopNNoTable,
		Intent:      models.IntentTopNByMeasure,
		Pattern:     "SELECT {{column}}, SUM({{measure}}) AS total_{{measure}} FROM {{table}} GROUP BY {{column}} ORDER BY total_{{measure}} {{sort_order}} LIMIT {{n}}",
		Description: "get me {{n}} {{column}} with {{extreme}} number of {{measure}}",
	},
	{
		Name:        TemplateJoinQuery,
		Intent:      models.IntentJoinQuery,
		Pattern:     "SELECT {{table1}}.* FROM {{table1}} INNER JOIN {{table2}} ON {{table1}}.{{local_field}} = {{table2}}.{{foreign_field}} WHERE {{table2}}.{{column}} = {{literal}}",
		Description: "show {{table1}} which has {{table2}} that the {{column}} is {{value}}",
	},
	{
		Name:        TemplateBasicSelect,
		Intent:      models.IntentBasicSelect,
		Pattern:     "SELECT {{columns}} FROM {{table}} WHERE {{where}}",
		Description: "get {{columns}} from {{table}} where {{condition}}",
	},
	{
		Name:        TemplateListContainers,
		Intent:      models.IntentListContainers,
		Pattern:     "SHOW TABLES",
		Description: "show tables",
	},
	{
		Name:        TemplateDescribeAttributes,
		Intent:      models.IntentDescribeAttributes,
		Pattern:     "SHOW COLUMNS FROM {{table}}",
		Description: "show table {{table}} attributes",
	},
}

// TabularFlavorOverrides replace templates by name for a given flavor.
var TabularFlavorOverrides = map[models.Flavor][]TemplateDefinition{
	models.FlavorPostgres: {
		{
			Name:        TemplateListContainers,
			Intent:      models.IntentListContainers,
			Pattern:     "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name",
			Description: "show tables",
		},
		{
			Name:        TemplateDescribeAttributes,
			Intent:      models.IntentDescribeAttributes,
			Pattern:     "SELECT column_name, data_type FROM information_schema.columns WHERE table_name = '{{table}}' ORDER BY ordinal_position",
			Description: "show table {{table}} attributes",
		},
	},
}

// TabularTemplatesFor returns the tabular set with flavor overrides applied.
func TabularTemplatesFor(flavor models.Flavor) []TemplateDefinition {
	overrides := make(map[string]TemplateDefinition)
	for _, def := range TabularFlavorOverrides[flavor] {
		overrides[def.Name] = def
	}
	out := make([]TemplateDefinition, 0, len(TabularTemplates))
	for _, def := range TabularTemplates {
		if o, ok := overrides[def.Name]; ok {
			def = o
		}
		out = append(out, def)
	}
	return out
}

// ============================================================================
// DOCUMENT (aggregation pipelines, relaxed extended JSON)
// ============================================================================

// A placeholder inside a JSON string is escaped on render; a placeholder
// outside a string is inserted verbatim and must already be JSON.
var DocumentTemplates = []TemplateDefinition{
	{
		Name:   TemplateTotalByCategory,
		Intent: models.IntentTotalByCategory,
		Stages: []string{
			`{"$group": {"_id": "${{category}}", "total": {"$sum": "${{measure}}"}}}`,
		},
		Description: "total {{measure}} by {{category}} from {{table}}",
	},
	{
		Name:   TemplateFilterSort,
		Intent: models.IntentFilterSort,
		Stages: []string{
			`{"$match": {{filter}}}`,
			`{"$sort": {"{{sort_column}}": {{sort_direction}}}}`,
			`{"$project": {{projection}}}`,
		},
		Description: "find {{columns}} from {{table}} where {{condition}} order by {{sort_column}} {{sort_order}}",
	},
	{
		Name:   TemplateCountByCategory,
		Intent: models.IntentCountByCategory,
		Stages: []string{
			`{"$group": {"_id": "${{category}}", "count": {"$sum": 1}}}`,
		},
		Description: "count {{table}} by {{category}}",
	},
	{
		Name:   TemplateAverageByCategory,
		Intent: models.IntentAverageByCategory,
		Stages: []string{
			`{"$group": {"_id": "${{category}}", "average": {"$avg": "${{measure}}"}}}`,
		},
		Description: "average {{measure}} by {{category}} from {{table}}",
	},
	{
		Name:   TemplateFilterByDateRange,
		Intent: models.IntentFilterByDateRange,
		Stages: []string{
			`{"$match": {"{{date_column}}": {"$gte": "{{start_date}}", "$lte": "{{end_date}}"}}}`,
		},
		Description: "show {{table}} where {{date_column}} is between {{start_date}} and {{end_date}}",
	},
	{
		Name:   TemplateTopNTable,
		Intent: models.IntentTopNByMeasure,
		Stages: []string{
			`{"$sort": {"{{measure}}": {{sort_direction}}}}`,
			`{"$limit": {{n}}}`,
		},
		Description: "get me {{n}} {{table}} with {{extreme}} {{measure}}",
	},
	{
		Name:   TemplateTopNCount,
		Intent: models.IntentTopNByMeasure,
		Stages: []string{
			`{"$group": {"_id": "${{category}}", "counting": {"$sum": 1}}}`,
			`{"$sort": {"counting": {{sort_direction}}}}`,
			`{"$limit": {{n}}}`,
		},
		Description: "get me {{n}} {{category}} with {{extreme}} count of {{table}}",
	},
	{
		Name:   TemplateTopNNoTable,
		Intent: models.IntentTopNByMeasure,
		Stages: []string{
			`{"$group": {"_id": "${{column}}", "total_{{measure}}": {"$sum": "${{measure}}"}}}`,
			`{"$sort": {"total_{{measure}}": {{sort_direction}}}}`,
			`{"$limit": {{n}}}`,
		},
		Description: "get me {{n}} {{column}} with {{extreme}} number of {{measure}}",
	},
	{
		Name:   TemplateJoinQuery,
		Intent: models.IntentJoinQuery,
		Stages: []string{
			`{"$lookup": {"from": "{{table2}}", "localField": "{{local_field}}", "foreignField": "{{foreign_field}}", "as": "{{table2}}_data"}}`,
			`{"$unwind": "${{table2}}_data"}`,
			`{"$match": {"{{table2}}_data.{{column}}": {"$regex": "{{value_pattern}}", "$options": "i"}}}`,
		},
		Description: "show {{table1}} which has {{table2}} that the {{column}} is {{value}}",
	},
	{
		Name:   TemplateBasicSelect,
		Intent: models.IntentBasicSelect,
		Stages: []string{
			`{"$match": {{filter}}}`,
			`{"$project": {{projection}}}`,
		},
		Description: "get {{columns}} from {{table}} where {{condition}}",
	},
	{
		Name:        TemplateListContainers,
		Intent:      models.IntentListContainers,
		Command:     `{"listCollections": 1, "nameOnly": true}`,
		Description: "list collections",
	},
	{
		Name:   TemplateDescribeAttributes,
		Intent: models.IntentDescribeAttributes,
		Stages: []string{
			`{"$limit": 1}`,
		},
		Description: "show table {{table}} attributes",
	},
}
