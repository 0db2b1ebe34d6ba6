package mapping

import (
	"regexp"
	"strings"

	"github.com/josephhbu/ChatDB/engine/models"
)

// TypeMap - native column/value type to coarse type, per backend.
// Usage: TypeMap["MySQL"]["DECIMAL"] returns models.TypeNumeric
// Keys are upper-cased base type names with any length or precision stripped.
var TypeMap = map[string]map[string]models.CoarseType{
	"MySQL": {
		// Numeric Types
		"TINYINT":   models.TypeNumeric,
		"SMALLINT":  models.TypeNumeric,
		"MEDIUMINT": models.TypeNumeric,
		"INT":       models.TypeNumeric,
		"INTEGER":   models.TypeNumeric,
		"BIGINT":    models.TypeNumeric,
		"DECIMAL":   models.TypeNumeric,
		"NUMERIC":   models.TypeNumeric,
		"FLOAT":     models.TypeNumeric,
		"DOUBLE":    models.TypeNumeric,
		"REAL":      models.TypeNumeric,

		// String Types
		"CHAR":       models.TypeText,
		"VARCHAR":    models.TypeText,
		"TINYTEXT":   models.TypeText,
		"TEXT":       models.TypeText,
		"MEDIUMTEXT": models.TypeText,
		"LONGTEXT":   models.TypeText,
		"ENUM":       models.TypeText,
		"SET":        models.TypeText,
	},

	"PostgreSQL": {
		// Numeric Types
		"SMALLINT":         models.TypeNumeric,
		"INTEGER":          models.TypeNumeric,
		"BIGINT":           models.TypeNumeric,
		"DECIMAL":          models.TypeNumeric,
		"NUMERIC":          models.TypeNumeric,
		"REAL":             models.TypeNumeric,
		"DOUBLE PRECISION": models.TypeNumeric,
		"SMALLSERIAL":      models.TypeNumeric,
		"SERIAL":           models.TypeNumeric,
		"BIGSERIAL":        models.TypeNumeric,
		"MONEY":            models.TypeNumeric,

		// String Types
		"CHARACTER":         models.TypeText,
		"CHARACTER VARYING": models.TypeText,
		"VARCHAR":           models.TypeText,
		"CHAR":              models.TypeText,
		"TEXT":              models.TypeText,
		"CITEXT":            models.TypeText,
	},

	"MongoDB": {
		// BSON types as reported by bsontype.Type.String()
		"DOUBLE":          models.TypeNumeric,
		"32-BIT INTEGER":  models.TypeNumeric,
		"64-BIT INTEGER":  models.TypeNumeric,
		"128-BIT DECIMAL": models.TypeNumeric,
		"STRING":          models.TypeText,
	},
}

// DateLikeTypes are native types the synthesizer treats as dates.
var DateLikeTypes = map[string]bool{
	"DATE":                        true,
	"DATETIME":                    true,
	"TIMESTAMP":                   true,
	"TIMESTAMP WITHOUT TIME ZONE": true,
	"TIMESTAMP WITH TIME ZONE":    true,
	"UTC DATETIME":                true,
}

// NormalizeNativeType upper-cases a native type and strips length,
// precision and unsigned modifiers: "decimal(10,2) unsigned" -> "DECIMAL".
func NormalizeNativeType(native string) string {
	t := strings.ToUpper(strings.TrimSpace(native))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " UNSIGNED")
	return strings.TrimSpace(t)
}

// CoarseTypeOf classifies a native type for the given backend.
func CoarseTypeOf(backend, native string) models.CoarseType {
	if native == "" {
		return models.TypeUnknown
	}
	if t, ok := TypeMap[backend][NormalizeNativeType(native)]; ok {
		return t
	}
	return models.TypeUnknown
}

// IsDateLike reports whether a native type holds dates.
func IsDateLike(native string) bool {
	return DateLikeTypes[NormalizeNativeType(native)]
}

// decimalRe accepts plain decimal literals only. NaN, Inf and hex floats
// stay words.
var decimalRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// IsDecimal reports whether s is written as a plain decimal number.
func IsDecimal(s string) bool {
	return decimalRe.MatchString(s)
}
