package scoring

const (
	// TestDimensions is the number of personality dimensions scored.
	TestDimensions = 4
	// BlockSize is the number of answers in one repeating question block.
	BlockSize = 7
	// TieMarker stands in for a dimension with no clear lean.
	TieMarker = 'X'
)

// DimensionIndex maps a question's position within a block to the dimension
// it scores. Dimension 3 receives one question per block, the others two.
var DimensionIndex = [BlockSize]int{0, 0, 1, 1, 2, 2, 3}

// Dimension describes one personality axis. Low is chosen when the
// B-percentage is below 50, High when it is above.
type Dimension struct {
	Name string
	Low  byte
	High byte
}

// Dimensions lists the four axes in dimension-index order.
var Dimensions = [TestDimensions]Dimension{
	{Name: "Extraversion/Introversion", Low: 'E', High: 'I'},
	{Name: "Sensing/iNtuition", Low: 'S', High: 'N'},
	{Name: "Thinking/Feeling", Low: 'T', High: 'F'},
	{Name: "Judging/Perceiving", Low: 'J', High: 'P'},
}
