package mapping

// ConditionPhrase maps a spoken comparison onto a canonical operator.
type ConditionPhrase struct {
	Words    []string
	Operator string
}

// ConditionPhrases is ordered longest first so "is at least" wins over "is".
var ConditionPhrases = []ConditionPhrase{
	{[]string{"is", "greater", "than", "or", "equal", "to"}, ">="},
	{[]string{"is", "less", "than", "or", "equal", "to"}, "<="},
	{[]string{"is", "greater", "than"}, ">"},
	{[]string{"is", "more", "than"}, ">"},
	{[]string{"is", "less", "than"}, "<"},
	{[]string{"is", "at", "least"}, ">="},
	{[]string{"is", "at", "most"}, "<="},
	{[]string{"is", "not"}, "!="},
	{[]string{"greater", "than"}, ">"},
	{[]string{"less", "than"}, "<"},
	{[]string{"is"}, "="},
	{[]string{"equals"}, "="},
}

// ConditionSymbols are operators accepted in symbolic form.
var ConditionSymbols = map[string]string{
	"=":  "=",
	"==": "=",
	"!=": "!=",
	"<>": "!=",
	">":  ">",
	"<":  "<",
	">=": ">=",
	"<=": "<=",
}

// ConditionConjunction joins clauses inside one condition phrase.
const ConditionConjunction = "and"

// OperatorMap - canonical operator to dialect operator
// Usage: OperatorMap["document"][">="] returns "$gte"
var OperatorMap = map[string]map[string]string{
	"tabular": {
		"=":  "=",
		"!=": "!=",
		">":  ">",
		"<":  "<",
		">=": ">=",
		"<=": "<=",
	},
	"document": {
		"=":  "$eq",
		"!=": "$ne",
		">":  "$gt",
		"<":  "$lt",
		">=": "$gte",
		"<=": "$lte",
	},
}
