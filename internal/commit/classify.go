package commit

// Classify groups an ordered commit sequence into reason buckets. Rules
// apply in priority order and membership is exclusive: a breaking header
// always wins, then "feat", then "fix"/"patch", then "refactor". Records
// matching none of the rules are dropped. An empty input yields all-empty
// buckets; Classify never fails and has no side effects.
func Classify(records []Record) Reasons {
	var rs Reasons
	for _, rec := range records {
		switch {
		case rec.IsBreaking():
			rs.Breaking = append(rs.Breaking, rec)
		case rec.Type == TypeFeat:
			rs.Features = append(rs.Features, rec)
		case rec.Type == TypeFix || rec.Type == TypePatch:
			rs.Fixes = append(rs.Fixes, rec)
		case rec.Type == TypeRefactor:
			rs.Refactors = append(rs.Refactors, rec)
		}
	}
	return rs
}
