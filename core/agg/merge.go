package agg

import (
	"github.com/huangsam/learnstat/schema"
)

// MergeRecords folds raw records into one record per date.
//
// Records sharing a date are combined field by field with max, never summed: the
// source restates cumulative-to-date snapshots, so a sum would double count.
// Records whose date is not a valid day key are dropped. The result does not
// depend on input order.
func MergeRecords(records []schema.RawDayRecord) map[string]schema.MergedDayRecord {
	merged := make(map[string]schema.MergedDayRecord, len(records))
	for _, r := range records {
		if !IsDayKey(r.Date) {
			continue
		}
		existing, ok := merged[r.Date]
		if !ok {
			merged[r.Date] = schema.MergedDayRecord(r)
			continue
		}
		merged[r.Date] = mergeRecord(existing, r)
	}
	return merged
}

// mergeRecord applies the maximum-wins rule to every numeric field.
func mergeRecord(existing schema.MergedDayRecord, incoming schema.RawDayRecord) schema.MergedDayRecord {
	return schema.MergedDayRecord{
		Date:        existing.Date,
		InfoCount:   max(existing.InfoCount, incoming.InfoCount),
		TermCount:   max(existing.TermCount, incoming.TermCount),
		QuizScore:   max(existing.QuizScore, incoming.QuizScore),
		QuizCorrect: max(existing.QuizCorrect, incoming.QuizCorrect),
		QuizTotal:   max(existing.QuizTotal, incoming.QuizTotal),
	}
}
