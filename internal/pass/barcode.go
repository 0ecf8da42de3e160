package pass

// Deterministic pseudo-barcode generation for the printable pass and
// baggage tag. The bars are cosmetic: nothing scans them, so the mapping
// only has to be stable for a given identifier.

// Bar is one stripe of a rendered barcode, in pixels.
type Bar struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Seed folds an identifier into an integer by summing its character
// codes. Identical identifiers always produce identical patterns.
func Seed(id string) int {
	seed := 0
	for _, r := range id {
		seed += int(r)
	}
	return seed
}

// TagStrip is the wide strip printed on the baggage tag, keyed by the
// booking id: 40 bars, widths alternating 3/2, heights 80/70.
func TagStrip(bookingID string) []Bar {
	seed := Seed(bookingID)
	bars := make([]Bar, 40)
	for i := range bars {
		bars[i] = Bar{Width: pick2(seed+i*7, 3, 2), Height: 70}
		if (seed+i*11)%10 > 3 {
			bars[i].Height = 80
		}
	}
	return bars
}

// PassStrip is the strip on the luggage pass, keyed by the tag code:
// 35 bars, widths 3/2, heights 50/45.
func PassStrip(tagCode string) []Bar {
	seed := Seed(tagCode)
	bars := make([]Bar, 35)
	for i := range bars {
		bars[i] = Bar{Width: pick2(seed+i*5, 3, 2), Height: 45}
		if (seed+i*13)%10 > 3 {
			bars[i].Height = 50
		}
	}
	return bars
}

// VerticalStrip runs down the center of the tag: 50 bars, width-only,
// three buckets.
func VerticalStrip(tagCode string) []Bar {
	seed := Seed(tagCode)
	bars := make([]Bar, 50)
	for i := range bars {
		width := 3
		if (seed+i*3)%3 == 0 {
			width = 4
		} else if (seed+i*5)%2 == 0 {
			width = 2
		}
		bars[i] = Bar{Width: width}
	}
	return bars
}

// HorizontalStrip sits at the top of the tag: 8 bars, height-only.
func HorizontalStrip(bookingID string) []Bar {
	seed := Seed(bookingID)
	bars := make([]Bar, 8)
	for i := range bars {
		height := 10
		if (seed+i*7)%3 == 0 {
			height = 8
		} else if (seed+i*5)%2 == 0 {
			height = 6
		}
		bars[i] = Bar{Height: height}
	}
	return bars
}

var stripeColors = []string{"green", "red", "blue", "yellow", "purple"}

// StripeColor picks the tag's route stripe from the destination code.
func StripeColor(destinationCode string) string {
	if destinationCode == "" {
		return stripeColors[0]
	}
	return stripeColors[int(destinationCode[0])%len(stripeColors)]
}

func pick2(n, even, odd int) int {
	if n%2 == 0 {
		return even
	}
	return odd
}
