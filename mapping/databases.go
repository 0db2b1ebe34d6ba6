package mapping

import "github.com/josephhbu/ChatDB/engine/models"

// SupportedDialects lists the query targets templates render for.
var SupportedDialects = []models.Dialect{
	models.DialectTabular,
	models.DialectDocument,
}

// BackendNames maps a dialect/flavor pair onto the TypeMap key.
var BackendNames = map[models.Flavor]string{
	models.FlavorMySQL:    "MySQL",
	models.FlavorPostgres: "PostgreSQL",
}

// DocumentBackend is the TypeMap key for the document dialect.
const DocumentBackend = "MongoDB"

// RawDocumentOperations are the collection methods the raw mode accepts.
var RawDocumentOperations = map[string]bool{
	"find":           true,
	"aggregate":      true,
	"countDocuments": true,
}

// RawPipelineStages are the aggregation stages the raw mode accepts.
// Write stages ($out, $merge) are never accepted.
var RawPipelineStages = map[string]bool{
	"$match":   true,
	"$group":   true,
	"$sort":    true,
	"$limit":   true,
	"$skip":    true,
	"$project": true,
	"$lookup":  true,
	"$unwind":  true,
	"$count":   true,
}

// IsSupportedDialect checks if a dialect is supported
func IsSupportedDialect(d models.Dialect) bool {
	for _, s := range SupportedDialects {
		if s == d {
			return true
		}
	}
	return false
}
