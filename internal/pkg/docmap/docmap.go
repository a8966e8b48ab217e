// Package docmap converts between typed records and the field maps exchanged
// with the document store. BSON is the common encoding: the mongo backend
// speaks it natively and the redis and memory backends persist it, so every
// backend hands back the same value types (primitive.DateTime for times).
package docmap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// IDField is the key under which the store id is merged into a document.
const IDField = "id"

// Encode turns a bson-tagged struct into a Document. The id field is dropped;
// backends own it.
func Encode(v any) (domain.Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docmap encode: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("docmap encode: %w", err)
	}
	delete(m, IDField)
	return domain.Document(m), nil
}

// Decode fills the bson-tagged struct v from doc.
func Decode(doc domain.Document, v any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docmap decode: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docmap decode: %w", err)
	}
	return nil
}

// Marshal serialises a document without its id, for backends that store bytes.
func Marshal(doc domain.Document) ([]byte, error) {
	clean := make(bson.M, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		clean[k] = v
	}
	return bson.Marshal(clean)
}

// Unmarshal is the inverse of Marshal and merges id into the result.
func Unmarshal(raw []byte, id string) (domain.Document, error) {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = bson.M{}
	}
	m[IDField] = id
	return domain.Document(m), nil
}

// Merge returns base with every key of partial overwritten.
func Merge(base, partial domain.Document) domain.Document {
	out := make(domain.Document, len(base)+len(partial))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range partial {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// SortBy orders docs ascending by field. Documents missing the field sort first,
// matching the remote store's null-first ordering.
func SortBy(docs []domain.Document, field string) {
	sort.SliceStable(docs, func(i, j int) bool {
		return Compare(docs[i][field], docs[j][field]) < 0
	})
}

// Compare orders two field values: nil < bool < number < string < time.
// Values of the same kind compare naturally; strings compare byte-wise.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankNumber:
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankTime:
		return toTime(a).Compare(toTime(b))
	}
	return 0
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankTime
	rankOther
)

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int, int32, int64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case time.Time, primitive.DateTime:
		return rankTime
	}
	return rankOther
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

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}
