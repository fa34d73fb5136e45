package tracker

import (
	"context"
	"sort"

	"presence-monitor-backend/internal/store"
)

// PersonLookup resolves enrichment details for a badge pin. The second
// return value reports whether a usable detail was found; a person with no
// detail is still counted, just omitted from the inside list.
type PersonLookup interface {
	Lookup(ctx context.Context, pin, lastTime, name string) (store.PersonDetail, bool)
}

// aggregate folds per-person states into the zone summary. Department
// buckets are created on first reference and sorted by name so summaries
// serialize deterministically.
func aggregate(ctx context.Context, perPerson map[string]*PersonState, lookup PersonLookup) store.ZoneSummary {
	summary := store.ZoneSummary{
		Departments: []store.DepartmentSummary{},
	}

	buckets := make(map[string]*store.DepartmentSummary)
	for pin, state := range perPerson {
		bucket, ok := buckets[state.Department]
		if !ok {
			bucket = &store.DepartmentSummary{
				Department: state.Department,
				Persons:    store.PersonList{Data: []store.PersonDetail{}},
			}
			buckets[state.Department] = bucket
		}

		var inCount, outCount int
		for _, tr := range state.Transitions {
			switch tr.Direction {
			case DirectionIn:
				inCount++
			case DirectionOut:
				outCount++
			}
		}

		summary.TotalIn += inCount
		summary.TotalOut += outCount
		bucket.InCount += inCount
		bucket.OutCount += outCount

		if state.Status == StatusInside {
			summary.TotalCurrentInside++
			bucket.CurrentInside++
			if detail, ok := lookup.Lookup(ctx, pin, state.LastTime, state.Name); ok {
				bucket.Persons.Data = append(bucket.Persons.Data, detail)
			}
		}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bucket := buckets[name]
		sort.Slice(bucket.Persons.Data, func(i, j int) bool {
			return bucket.Persons.Data[i].ID < bucket.Persons.Data[j].ID
		})
		summary.Departments = append(summary.Departments, *bucket)
	}

	return summary
}
