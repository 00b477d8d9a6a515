package internal

import (
	"net/http"
	"sort"
	"strings"

	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/table"
)

// listParams holds the query parameters of list endpoints
type listParams struct {
	q    string
	sort string
}

func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()
	return listParams{
		q:    values.Get("q"),
		sort: strings.TrimSpace(values.Get("sort")),
	}
}

type sortKey struct {
	column string
	desc   bool
}

// parseSort reads a comma-separated sort parameter; '-' prefixes DESC.
// Keys outside allowed are dropped.
func parseSort(sortParam string, allowed map[string]bool) []sortKey {
	var keys []sortKey
	for _, raw := range strings.Split(sortParam, ",") {
		s := strings.TrimSpace(raw)
		desc := strings.HasPrefix(s, "-")
		s = strings.TrimPrefix(s, "-")
		if s == "" || !allowed[s] {
			continue
		}
		keys = append(keys, sortKey{column: s, desc: desc})
	}
	return keys
}

// filterRecords keeps the records whose row matches q under the table
// search rules.
func filterRecords[T models.Record](recs []T, q string) []T {
	if q == "" {
		return recs
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if len(table.Filter([]map[string]string{rec.Values()}, q)) > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// sortRecords orders recs in place. Without keys the store order
// (newest first) is kept.
func sortRecords[T models.Record](recs []T, keys []sortKey) {
	if len(keys) == 0 {
		return
	}
	rows := make(map[int]map[string]string, len(recs))
	for i, rec := range recs {
		rows[i] = rec.Values()
	}
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := rows[idx[a]], rows[idx[b]]
		for _, k := range keys {
			va, vb := strings.ToLower(ra[k.column]), strings.ToLower(rb[k.column])
			if va == vb {
				continue
			}
			if k.desc {
				return va > vb
			}
			return va < vb
		}
		return false
	})
	sorted := make([]T, len(recs))
	for i, j := range idx {
		sorted[i] = recs[j]
	}
	copy(recs, sorted)
}
