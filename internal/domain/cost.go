package domain

// CostEmptyMarker is the literal cost string meaning "zero-cost attack".
// It decodes to an empty segment list; the exporter re-emits it only for
// attacks, where an empty cost is meaningful rather than not-applicable.
const CostEmptyMarker = "#"

// CostSegment is one contiguous run of a cost string before type
// resolution: the type initial and how many times it repeats.
type CostSegment struct {
	Initial string
	Amount  int
}

// DecodeCost run-length decodes a cost string into segments, e.g. "WWC"
// becomes [{W 2} {C 1}]. Non-contiguous repeats of the same initial stay
// separate segments ("WCW" is three runs, not a merge), which keeps
// encode(decode(s)) == s for every cost string. The zero-cost marker
// decodes to nil.
func DecodeCost(s string) []CostSegment {
	if s == "" || s == CostEmptyMarker {
		return nil
	}
	var segs []CostSegment
	for _, r := range s {
		initial := string(r)
		if n := len(segs); n > 0 && segs[n-1].Initial == initial {
			segs[n-1].Amount++
			continue
		}
		segs = append(segs, CostSegment{Initial: initial, Amount: 1})
	}
	return segs
}

// EncodeCost is the inverse of DecodeCost. An empty segment list encodes
// to the empty string; callers decide whether that surfaces as the
// zero-cost marker.
func EncodeCost(segs []CostSegment) string {
	var b []byte
	for _, seg := range segs {
		for i := 0; i < seg.Amount; i++ {
			b = append(b, seg.Initial...)
		}
	}
	return string(b)
}
