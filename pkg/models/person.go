package models

// Person is a person node in the graph. There is no storage-level uniqueness
// constraint on person_id; de-duplication happens per ingestion batch only.
type Person struct {
	PersonID int64 `json:"person_id"`
}

// DistinctPersonIDs reduces a batch of employment-shaped records to the set of
// distinct person ids. The ingestion payload's unit is one record per
// employment fact; the node-creation unit is one record per distinct person.
// The returned order follows first appearance in the batch.
func DistinctPersonIDs(records []EmploymentRecord) []int64 {
	seen := make(map[int64]bool, len(records))
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		if seen[r.PersonID] {
			continue
		}
		seen[r.PersonID] = true
		ids = append(ids, r.PersonID)
	}
	return ids
}
