package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/josephhbu/ChatDB/engine/models"
	"github.com/josephhbu/ChatDB/mapping"
)

// catalogFile is the on-disk template catalog.
//
//	tabular:
//	  - name: total_by_category
//	    intent: total-by-category
//	    pattern: SELECT {{category}}, SUM({{measure}}) AS total FROM {{table}} GROUP BY {{category}}
//	    description: total {{measure}} by {{category}} from {{table}}
//	document:
//	  - name: count_by_category
//	    stages: ['{"$group": {"_id": "${{category}}", "count": {"$sum": 1}}}']
//	    description: count {{table}} by {{category}}
type catalogFile struct {
	Tabular  []mapping.TemplateDefinition `yaml:"tabular"`
	Document []mapping.TemplateDefinition `yaml:"document"`
}

// LoadFile reads a YAML catalog and adds its templates, replacing any
// already registered under the same name and dialect.
func (b *Builder) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template catalog: %w", err)
	}
	if err := b.LoadYAML(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadYAML is LoadFile over an in-memory document.
func (b *Builder) LoadYAML(data []byte) error {
	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("parsing template catalog: %w", err)
	}
	for _, def := range cat.Tabular {
		if err := b.Replace(models.DialectTabular, def); err != nil {
			return err
		}
	}
	for _, def := range cat.Document {
		if err := b.Replace(models.DialectDocument, def); err != nil {
			return err
		}
	}
	return nil
}
