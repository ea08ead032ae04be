package match

// Distance returns the edit distance between a and b counted in runes: the
// number of single-rune insertions, deletions and substitutions that turn one
// into the other.
func Distance(a, b string) int {
	long, short := []rune(a), []rune(b)
	if len(long) < len(short) {
		long, short = short, long
	}

	// row[j] is the distance between the prefix of long seen so far and short[:j].
	row := make([]int, len(short)+1)
	for j := range row {
		row[j] = j
	}

	for i, lr := range long {
		diag := row[0]
		row[0] = i + 1

		for j, sr := range short {
			cost := 1
			if lr == sr {
				cost = 0
			}

			next := min(row[j+1]+1, row[j]+1, diag+cost)
			diag = row[j+1]
			row[j+1] = next
		}
	}

	return row[len(short)]
}

// Similarity turns Distance into a score between 0 (nothing in common) and
// 1 (equal).
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// NameSimilarity scores two field or type names. Both are normalized first;
// the better of the plain and the suffix-stripped comparison wins, so that
// "CustomerID" and "customer" score as well as "Customer" and "customer".
func NameSimilarity(a, b string) float64 {
	return max(
		Similarity(NormalizeIdent(a), NormalizeIdent(b)),
		Similarity(StripIdentSuffix(a), StripIdentSuffix(b)),
	)
}
