// Package repotest provides an in-memory repository.Collection that evaluates
// the subset of MongoDB filter and update syntax used by this module.
package repotest

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection stores documents as bson.M in insertion order.
type Collection[T any] struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string

	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
	// Err, when set, is returned by every operation.
	Err error
}

var _ repository.Collection[models.BlogModel] = (*Collection[models.BlogModel])(nil)

// New returns an empty collection enforcing uniqueness on the given fields.
func New[T any](unique ...string) *Collection[T] {
	return &Collection[T]{unique: unique, Now: time.Now}
}

// Len returns the number of stored documents.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Raw returns a copy of the stored document at index i, including fields hidden from JSON.
func (c *Collection[T]) Raw(i int) bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := bson.M{}
	for k, v := range c.docs[i] {
		out[k] = v
	}
	return out
}

func (c *Collection[T]) Find(_ context.Context, filter bson.M, opts repository.FindOptions) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}

	matched := c.match(filter)
	if len(opts.Sort) > 0 {
		sortDocs(matched, opts.Sort)
	}
	start := int(opts.Skip)
	if start > len(matched) {
		start = len(matched)
	}
	matched = matched[start:]
	if opts.Limit > 0 && int(opts.Limit) < len(matched) {
		matched = matched[:opts.Limit]
	}

	items := make([]T, 0, len(matched))
	for _, doc := range matched {
		item, err := fromDoc[T](doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (c *Collection[T]) Count(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	return int64(len(c.match(filter))), nil
}

func (c *Collection[T]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	i := c.first(filter)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	return fromDoc[T](c.docs[i])
}

func (c *Collection[T]) InsertOne(_ context.Context, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if d, ok := any(doc).(models.Document); ok {
		d.BeforeInsert(c.Now())
	}
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	if err := c.checkUnique(m, -1); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *Collection[T]) ReplaceOne(_ context.Context, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	d, ok := any(doc).(models.Document)
	if !ok {
		return fmt.Errorf("replace: %T has no identity", doc)
	}
	i := c.first(bson.M{"_id": d.Key()})
	if i < 0 {
		return repository.ErrNotFound
	}
	d.BeforeReplace(c.Now())
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	if err := c.checkUnique(m, i); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	c.docs[i] = m
	return nil
}

func (c *Collection[T]) FindOneAndUpdate(_ context.Context, filter bson.M, update bson.M) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	i := c.first(filter)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	update, err := repository.WithUpdatedAt(update, c.Now())
	if err != nil {
		return nil, err
	}

	next := bson.M{}
	for k, v := range c.docs[i] {
		next[k] = v
	}
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return nil, fmt.Errorf("repotest: unsupported %s argument %T", op, arg)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				next[k] = v
			}
		case "$inc":
			for k, v := range fields {
				sum := toFloat(next[k]) + toFloat(v)
				if _, isFloat := next[k].(float64); isFloat {
					next[k] = sum
				} else {
					next[k] = int64(sum)
				}
			}
		default:
			return nil, fmt.Errorf("repotest: unsupported update operator %s", op)
		}
	}

	// Round trip through the typed model so values take their stored types.
	typed, err := fromDoc[T](next)
	if err != nil {
		return nil, err
	}
	m, err := toDoc(typed)
	if err != nil {
		return nil, err
	}
	if err := c.checkUnique(m, i); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	c.docs[i] = m
	return fromDoc[T](m)
}

func (c *Collection[T]) DeleteOne(_ context.Context, filter bson.M) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	i := c.first(filter)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	doc := c.docs[i]
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return fromDoc[T](doc)
}

// Aggregate supports $match, $group (by "$field" with $sum accumulators) and $sort.
func (c *Collection[T]) Aggregate(_ context.Context, pipeline mongo.Pipeline, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}

	rows := make([]bson.M, len(c.docs))
	copy(rows, c.docs)
	for _, stage := range pipeline {
		if len(stage) != 1 {
			return fmt.Errorf("repotest: stage must have one operator, got %d", len(stage))
		}
		op, arg := stage[0].Key, stage[0].Value
		switch op {
		case "$match":
			filter := asM(arg)
			var kept []bson.M
			for _, row := range rows {
				if matches(row, filter) {
					kept = append(kept, row)
				}
			}
			rows = kept
		case "$group":
			rows = group(rows, asM(arg))
		case "$sort":
			sortDocs(rows, asD(arg))
		default:
			return fmt.Errorf("repotest: unsupported stage %s", op)
		}
	}

	if rows == nil {
		rows = []bson.M{}
	}
	raw, err := bson.Marshal(bson.M{"rows": rows})
	if err != nil {
		return err
	}
	var holder struct {
		Rows bson.RawValue `bson:"rows"`
	}
	if err := bson.Unmarshal(raw, &holder); err != nil {
		return err
	}
	return holder.Rows.Unmarshal(out)
}

func (c *Collection[T]) match(filter bson.M) []bson.M {
	var out []bson.M
	for _, doc := range c.docs {
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out
}

func (c *Collection[T]) first(filter bson.M) int {
	for i, doc := range c.docs {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) checkUnique(doc bson.M, skip int) error {
	for _, field := range c.unique {
		v, ok := doc[field]
		if !ok || v == "" {
			continue
		}
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if equal(other[field], v) {
				return fmt.Errorf("%w: %s %v", repository.ErrDuplicate, field, v)
			}
		}
	}
	return nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			ok := false
			for _, sub := range asList(cond) {
				if matches(doc, sub) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		case "$and":
			for _, sub := range asList(cond) {
				if !matches(doc, sub) {
					return false
				}
			}
		default:
			if !matchField(lookup(doc, key), cond) {
				return false
			}
		}
	}
	return true
}

func matchField(val any, cond any) bool {
	switch c := cond.(type) {
	case primitive.Regex:
		return matchRegex(val, c)
	case bson.M:
		for op, arg := range c {
			switch op {
			case "$in":
				found := false
				for _, candidate := range asValues(arg) {
					if matchField(val, candidate) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			case "$eq":
				if !matchField(val, arg) {
					return false
				}
			case "$ne":
				if matchField(val, arg) {
					return false
				}
			default:
				return false
			}
		}
		return true
	default:
		if arr, ok := val.(bson.A); ok {
			for _, el := range arr {
				if equal(el, c) {
					return true
				}
			}
			return false
		}
		return equal(val, c)
	}
}

func matchRegex(val any, re primitive.Regex) bool {
	pattern := re.Pattern
	if strings.Contains(re.Options, "i") {
		pattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	switch v := val.(type) {
	case string:
		return compiled.MatchString(v)
	case bson.A:
		for _, el := range v {
			if s, ok := el.(string); ok && compiled.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func lookup(doc bson.M, key string) any {
	parts := strings.Split(key, ".")
	var cur any = doc
	for _, p := range parts {
		m := asM(cur)
		if m == nil {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func group(rows []bson.M, def bson.M) []bson.M {
	idExpr, _ := def["_id"].(string)
	field := strings.TrimPrefix(idExpr, "$")

	var order []any
	groups := map[any]bson.M{}
	for _, row := range rows {
		var key any
		if field != "" {
			key = lookup(row, field)
		}
		g, ok := groups[key]
		if !ok {
			g = bson.M{"_id": key}
			for name := range def {
				if name != "_id" {
					g[name] = int64(0)
				}
			}
			groups[key] = g
			order = append(order, key)
		}
		for name, acc := range def {
			if name == "_id" {
				continue
			}
			sum := asM(acc)["$sum"]
			switch s := sum.(type) {
			case string:
				g[name] = int64(toFloat(g[name]) + toFloat(lookup(row, strings.TrimPrefix(s, "$"))))
			default:
				g[name] = int64(toFloat(g[name]) + toFloat(s))
			}
		}
	}
	out := make([]bson.M, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

func sortDocs(docs []bson.M, keys bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range keys {
			dir := int(toFloat(e.Value))
			cmp := compare(lookup(docs[i], e.Key), lookup(docs[j], e.Key))
			if cmp == 0 {
				continue
			}
			if dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compare(a, b any) int {
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if isNumber(a) && isNumber(b) {
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return toFloat(a) == toFloat(b)
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func asM(v any) bson.M {
	switch m := v.(type) {
	case bson.M:
		return m
	case map[string]any:
		return m
	case bson.D:
		out := bson.M{}
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	}
	return nil
}

func asD(v any) bson.D {
	switch d := v.(type) {
	case bson.D:
		return d
	case bson.M:
		out := bson.D{}
		for k, val := range d {
			out = append(out, bson.E{Key: k, Value: val})
		}
		return out
	}
	return nil
}

func asList(v any) []bson.M {
	switch l := v.(type) {
	case []bson.M:
		return l
	case bson.A:
		out := make([]bson.M, 0, len(l))
		for _, el := range l {
			out = append(out, asM(el))
		}
		return out
	case []any:
		out := make([]bson.M, 0, len(l))
		for _, el := range l {
			out = append(out, asM(el))
		}
		return out
	}
	return nil
}

func asValues(v any) []any {
	switch l := v.(type) {
	case bson.A:
		return l
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []primitive.Regex:
		out := make([]any, len(l))
		for i, r := range l {
			out[i] = r
		}
		return out
	}
	return nil
}
