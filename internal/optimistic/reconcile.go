package optimistic

// Reconcile replaces the entity with tempID by the confirmed entity, keeping
// its position. If the confirmed id is already present elsewhere (a refresh
// got there first) the duplicate is dropped. If tempID is gone the confirmed
// entity is prepended so the authoritative value is never lost.
// The input slice is not modified.
func Reconcile[T Entity](collection []T, tempID string, confirmed T) []T {
	out := make([]T, 0, len(collection)+1)
	replaced := false

	for _, e := range collection {
		switch e.GetID() {
		case tempID:
			out = append(out, confirmed)
			replaced = true
		case confirmed.GetID():
			// уже пришло через refresh, оставляем одну копию
			continue
		default:
			out = append(out, e)
		}
	}

	if !replaced {
		out = append([]T{confirmed}, out...)
	}

	return out
}

// Rebase merges a freshly listed snapshot with the local collection without
// losing outstanding mutations:
//   - entities with a pending create stay at the head, in their current order;
//   - ids with a pending delete are dropped from the snapshot;
//   - ids with a pending update keep their optimistic local value;
//   - temp-prefixed ids coming from the snapshot are discarded.
//
// With an empty pending map the result equals the snapshot minus temp ids.
func Rebase[T Entity](current, snapshot []T, pending map[string]OpKind) []T {
	local := make(map[string]T, len(current))
	out := make([]T, 0, len(snapshot)+len(pending))

	for _, e := range current {
		id := e.GetID()
		local[id] = e
		if pending[id] == OpCreate {
			out = append(out, e)
		}
	}

	seen := make(map[string]struct{}, len(snapshot))
	for _, e := range snapshot {
		id := e.GetID()
		if IsTempID(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		switch pending[id] {
		case OpDelete:
			continue
		case OpUpdate:
			if optimistic, ok := local[id]; ok {
				out = append(out, optimistic)
				continue
			}
		}
		out = append(out, e)
	}

	return out
}

func indexOf[T Entity](collection []T, id string) int {
	for i, e := range collection {
		if e.GetID() == id {
			return i
		}
	}
	return -1
}
