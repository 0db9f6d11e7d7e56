package landing

import (
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/validator"
)

// Reference kinds used in logs and metrics.
const (
	RefCategory = "category"
	RefProduct  = "product"
)

// IsReferenceID reports whether id has the backend identifier format.
func IsReferenceID(id string) bool {
	return validator.IsReferenceID(id)
}

// SanitizeIDs keeps the well formed ids of in, first occurrence wins, in
// their original relative order. Dropped ids are logged and counted.
func SanitizeIDs(kind string, in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, id := range in {
		if !IsReferenceID(id) {
			droppedReferenceIDs.WithLabelValues(kind).Inc()
			logger.Warn("Dropped malformed reference id", map[string]interface{}{
				"kind": kind,
				"id":   id,
			})
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diffIDs returns the ids of next missing from current and the ids of
// current missing from next.
func diffIDs(current, next []string) (added, removed []string) {
	cur := make(map[string]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	nxt := make(map[string]struct{}, len(next))
	for _, id := range next {
		nxt[id] = struct{}{}
		if _, ok := cur[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if _, ok := nxt[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
