package batch

import (
	"github.com/rijenmdr/Web-Performance-Datasets/internal/psi"
)

// ResultSet is the ordered, identity-deduplicated record sequence. Order is
// first-append order across all runs. Alongside the sequence it keeps an
// identity-to-position index covering both the requested and final URL of
// each record, so merges never scan the whole list.
//
// The index is last-write-wins: when two records collide on a key (redirect
// chains), the later record owns the mapping and the earlier one silently
// loses that identity. ResultSet is not safe for concurrent use; the engine
// is its only writer.
type ResultSet struct {
	records []psi.Record
	pos     map[string]int
}

// NewResultSet builds a set from previously persisted records, indexing each
// record under both of its URL keys in sequence order.
func NewResultSet(records []psi.Record) *ResultSet {
	rs := &ResultSet{
		records: append([]psi.Record(nil), records...),
		pos:     make(map[string]int, 2*len(records)),
	}
	for i, rec := range rs.records {
		rs.indexRecord(i, rec)
	}
	return rs
}

func (rs *ResultSet) indexRecord(i int, rec psi.Record) {
	if rec.RequestedURL != "" {
		rs.pos[NormalizeKey(rec.RequestedURL)] = i
	}
	if rec.FinalURL != "" {
		rs.pos[NormalizeKey(rec.FinalURL)] = i
	}
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	return len(rs.records)
}

// Records returns a copy of the ordered sequence, safe to hand to a
// checkpoint writer while the set keeps mutating.
func (rs *ResultSet) Records() []psi.Record {
	return append([]psi.Record(nil), rs.records...)
}

// Contains reports whether any record currently holds the identity key.
func (rs *ResultSet) Contains(key string) bool {
	_, ok := rs.pos[key]
	return ok
}

// Position returns the sequence position holding key, or -1.
func (rs *ResultSet) Position(key string) int {
	if i, ok := rs.pos[key]; ok {
		return i
	}
	return -1
}

// Upsert merges a freshly fetched record: if its requested-URL identity is
// already held, the existing record is replaced in place; otherwise the
// record is appended. Both of the record's keys are (re)pointed at the slot.
// It returns the slot position and whether an existing record was replaced.
func (rs *ResultSet) Upsert(rec psi.Record) (int, bool) {
	key := NormalizeKey(rec.RequestedURL)
	if i, ok := rs.pos[key]; ok {
		rs.records[i] = rec
		rs.indexRecord(i, rec)
		return i, true
	}
	rs.records = append(rs.records, rec)
	i := len(rs.records) - 1
	rs.indexRecord(i, rec)
	return i, false
}

// LastKey returns the identity key of the last record in the sequence,
// preferring the requested URL and falling back to the final URL. It returns
// "" for an empty set.
func (rs *ResultSet) LastKey() string {
	if len(rs.records) == 0 {
		return ""
	}
	last := rs.records[len(rs.records)-1]
	if last.RequestedURL != "" {
		return NormalizeKey(last.RequestedURL)
	}
	return NormalizeKey(last.FinalURL)
}
