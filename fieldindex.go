package jsoncore

import (
	"github.com/cespare/xxhash/v2"
	"github.com/modern-go/reflect2"
)

// wideFieldThreshold is the cutover point between a linear match
// ladder and a hashed dispatch table, per spec §9's design note that
// small types favor the ladder and wide types (its LotsOfFields
// example) favor the table.
const wideFieldThreshold = 8

// FieldDescriptor is one entry of a record's compile-time-derived
// field list (spec §3's Record descriptor).
type FieldDescriptor struct {
	GoIndex       int
	FieldName     string
	JSONKey       string
	FieldType     reflect2.Type
	Default       any
	HasDefault    bool
	AdmitsMissing bool
	AdmitsNull    bool
}

// FieldIndex maps a JSON key to its FieldDescriptor. Below
// wideFieldThreshold fields it is a plain linear scan in declaration
// order (exact, case-sensitive match, as spec §4.5 requires); above
// it, lookups hash the key with xxhash and fall back to an exact
// compare within the bucket to resolve collisions.
type FieldIndex struct {
	fields   []FieldDescriptor
	useTable bool
	table    map[uint64][]int
}

// BuildFieldIndex constructs a FieldIndex from a field list in
// declaration order.
func BuildFieldIndex(fields []FieldDescriptor) *FieldIndex {
	fi := &FieldIndex{fields: fields}
	if len(fields) > wideFieldThreshold {
		fi.useTable = true
		fi.table = make(map[uint64][]int, len(fields))
		for i, f := range fields {
			h := xxhash.Sum64String(f.JSONKey)
			fi.table[h] = append(fi.table[h], i)
		}
	}
	return fi
}

// Lookup finds the field matching key, or reports !ok for an unknown
// key (which the record materializer skips rather than failing).
func (fi *FieldIndex) Lookup(key string) (*FieldDescriptor, bool) {
	if fi.useTable {
		h := xxhash.Sum64String(key)
		for _, i := range fi.table[h] {
			if fi.fields[i].JSONKey == key {
				return &fi.fields[i], true
			}
		}
		return nil, false
	}
	for i := range fi.fields {
		if fi.fields[i].JSONKey == key {
			return &fi.fields[i], true
		}
	}
	return nil, false
}

// Len returns the number of declared fields.
func (fi *FieldIndex) Len() int { return len(fi.fields) }

// Fields returns the field list in declaration order.
func (fi *FieldIndex) Fields() []FieldDescriptor { return fi.fields }
