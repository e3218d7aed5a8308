// Package listquery translates list-endpoint query strings into store
// options: filtering with comparison operators, sorting, field
// selection, and pagination. Alias routes pre-set values here before
// delegating to the generic list handler.
package listquery

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Pagination bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Reserved parameter names that are not filter fields.
var reserved = map[string]bool{
	"sort":   true,
	"fields": true,
	"page":   true,
	"limit":  true,
}

// Mongo comparison operators accepted in bracket syntax, e.g.
// price[lt]=1000 or duration[gte]=5.
var operators = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Options is the parsed, store-ready form of a list query.
type Options struct {
	Filter bson.M
	Sort   bson.D
	Fields bson.M // projection; nil selects everything
	Skip   int64
	Limit  int64
}

// Parse builds Options from raw query values. allowed restricts which
// field names may be filtered or sorted on; unknown names are ignored
// rather than rejected so clients can't probe the schema.
func Parse(values url.Values, allowed map[string]bool) Options {
	opts := Options{
		Filter: bson.M{},
		Limit:  DefaultLimit,
	}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}

		field, op := splitOperator(key)
		if !allowed[field] {
			continue
		}

		if op == "" {
			opts.Filter[field] = coerce(vals[0])
			continue
		}
		mongoOp, ok := operators[op]
		if !ok {
			continue
		}
		cond, _ := opts.Filter[field].(bson.M)
		if cond == nil {
			cond = bson.M{}
		}
		cond[mongoOp] = coerce(vals[0])
		opts.Filter[field] = cond
	}

	opts.Sort = parseSort(values.Get("sort"), allowed)
	opts.Fields = parseFields(values.Get("fields"), allowed)

	limit := parseInt(values.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	opts.Limit = int64(limit)

	page := parseInt(values.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	opts.Skip = int64(page-1) * opts.Limit

	return opts
}

// splitOperator separates "price[lt]" into ("price", "lt").
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// parseSort turns "-price,ratings_average" into a bson.D sort spec.
func parseSort(raw string, allowed map[string]bool) bson.D {
	if raw == "" {
		return nil
	}
	var sort bson.D
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		dir := 1
		if strings.HasPrefix(part, "-") {
			dir = -1
			part = part[1:]
		}
		if part == "" || !allowed[part] {
			continue
		}
		sort = append(sort, bson.E{Key: part, Value: dir})
	}
	return sort
}

// parseFields turns "name,price" into an inclusion projection.
func parseFields(raw string, allowed map[string]bool) bson.M {
	if raw == "" {
		return nil
	}
	proj := bson.M{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !allowed[part] {
			continue
		}
		proj[part] = 1
	}
	if len(proj) == 0 {
		return nil
	}
	return proj
}

// coerce converts numeric-looking values so Mongo comparisons work on
// number fields; everything else stays a string.
func coerce(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if v == "true" {
		return true
	}
	if v == "false" {
		return false
	}
	return v
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
