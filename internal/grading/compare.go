package grading

// Compare aligns user against reference strictly by position. A line that is
// inserted or dropped shifts every later comparison; that is intended.
func Compare(user, reference []string) ComparisonResult {
	n := max(len(user), len(reference))
	out := make([]Discrepancy, 0)
	for i := 0; i < n; i++ {
		hasUser := i < len(user)
		hasRef := i < len(reference)
		switch {
		case hasUser && !hasRef:
			out = append(out, Discrepancy{
				LineNumber: i + 1,
				Expected:   []string{},
				Received:   user[i],
				Reason:     ReasonExtraLine,
			})
		case !hasUser && hasRef:
			out = append(out, Discrepancy{
				LineNumber: i + 1,
				Expected:   []string{reference[i]},
				Received:   "",
				Reason:     ReasonMissingLine,
			})
		case user[i] != reference[i]:
			out = append(out, Discrepancy{
				LineNumber: i + 1,
				Expected:   []string{reference[i]},
				Received:   user[i],
				Reason:     Classify(user[i], reference[i]),
			})
		}
	}
	return ComparisonResult{Matches: len(out) == 0, Discrepancies: out}
}
