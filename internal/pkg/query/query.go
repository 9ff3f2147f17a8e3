// Package query builds the mongo filters shared by the content listings.
package query

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contains matches v as a case-insensitive substring. v is escaped, never
// interpreted as a pattern.
func Contains(v string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
}

// Either resolves a single document by its human identifier or its slug.
func Either(idField, v string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{idField: v},
		bson.M{"slug": v},
	}}
}

// Bool parses a tri-state flag: ok is false when raw is empty, otherwise the
// flag is true only for "true".
func Bool(raw string) (value, ok bool) {
	if raw == "" {
		return false, false
	}
	return raw == "true", true
}

// Filter accumulates conditions from query parameters.
type Filter bson.M

// New returns an empty filter.
func New() Filter { return Filter{} }

// Set adds an exact condition.
func (f Filter) Set(field string, v any) Filter {
	f[field] = v
	return f
}

// Contains adds a substring condition when raw is non-empty.
func (f Filter) Contains(field, raw string) Filter {
	if raw = strings.TrimSpace(raw); raw != "" {
		f[field] = Contains(raw)
	}
	return f
}

// Equals adds an exact string condition when raw is non-empty.
func (f Filter) Equals(field, raw string) Filter {
	if raw != "" {
		f[field] = raw
	}
	return f
}

// Bool adds a tri-state flag condition.
func (f Filter) Bool(field, raw string) Filter {
	if v, ok := Bool(raw); ok {
		f[field] = v
	}
	return f
}

// Search ORs a substring match of raw over scalar fields and list fields.
func (f Filter) Search(raw string, scalar []string, lists ...string) Filter {
	if raw = strings.TrimSpace(raw); raw == "" {
		return f
	}
	re := Contains(raw)
	or := make(bson.A, 0, len(scalar)+len(lists))
	for _, field := range scalar {
		or = append(or, bson.M{field: re})
	}
	for _, field := range lists {
		or = append(or, bson.M{field: bson.M{"$in": bson.A{re}}})
	}
	f["$or"] = or
	return f
}

// M returns the filter as a bson document.
func (f Filter) M() bson.M { return bson.M(f) }
