package scoring

// BuildTally counts A and B answers per dimension.
//
// Answers are read case-insensitively in consecutive blocks of BlockSize.
// Characters of a trailing partial block are ignored, as is any character
// other than A or B.
func BuildTally(answers string) Tally {
	var t Tally
	blocks := len(answers) / BlockSize
	for block := 0; block < blocks; block++ {
		for pos := 0; pos < BlockSize; pos++ {
			dim := DimensionIndex[pos]
			switch answers[block*BlockSize+pos] {
			case 'A', 'a':
				t[dim].A++
			case 'B', 'b':
				t[dim].B++
			}
		}
	}
	return t
}
