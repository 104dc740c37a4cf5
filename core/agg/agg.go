// Package agg has the progress aggregation engine.
//
// Every function here is pure: it performs no I/O, keeps no state between calls
// and never mutates its inputs, so it is safe to call from any goroutine.
package agg

import (
	"github.com/huangsam/learnstat/schema"
)

// Aggregate runs the full pipeline for one window: merge duplicates, generate the
// day axis and normalize each day against the denominators.
//
// Nil or empty records still produce one zero point per day. An inverted or
// unparseable window produces an empty series.
func Aggregate(records []schema.RawDayRecord, startKey, endKey string, denoms schema.Denominators) ([]schema.NormalizedDayPoint, map[string]schema.MergedDayRecord) {
	merged := MergeRecords(records)
	dates, err := DateRangeKeys(startKey, endKey)
	if err != nil {
		return []schema.NormalizedDayPoint{}, merged
	}
	return Normalize(dates, merged, denoms), merged
}
