package mapping

// WildcardTokens are the spellings of "every column".
var WildcardTokens = map[string]bool{
	"all": true,
	"*":   true,
}

// SortOrders normalizes spoken sort directions.
var SortOrders = map[string]string{
	"asc":        "ASC",
	"ascending":  "ASC",
	"desc":       "DESC",
	"descending": "DESC",
}

// DefaultSortOrder applies when the phrase names no direction.
const DefaultSortOrder = "ASC"

// SortDirections - SQL sort order to aggregation $sort value
var SortDirections = map[string]int{
	"ASC":  1,
	"DESC": -1,
}

// LocationColumns hold short region codes stored upper-case ("ca" -> "CA").
var LocationColumns = map[string]bool{
	"state":        true,
	"location":     true,
	"country":      true,
	"region":       true,
	"city_code":    true,
	"state_code":   true,
	"country_code": true,
}

// LocationCodeMaxLen bounds what counts as a code rather than a place name.
const LocationCodeMaxLen = 3
