package textparse

import "math"

// BlockStats aggregates per-line token statistics under every delimiter
// hypothesis. MeanNumericRatio is computed from single-space tokens, the
// finest-grained view of the line.
type BlockStats struct {
	Counts           [delimiterCount][]int
	Mode             [delimiterCount]int
	CV               [delimiterCount]float64
	MeanNumericRatio float64
}

func computeStats(lines []Line) BlockStats {
	var st BlockStats
	ratioSum := 0.0
	for _, l := range lines {
		for d := Delimiter(0); d < delimiterCount; d++ {
			tokens := tokenizeLine(l, d)
			st.Counts[d] = append(st.Counts[d], len(tokens))
			if d == DelimSingleSpace {
				ratioSum += numericRatio(tokens)
			}
		}
	}
	for d := Delimiter(0); d < delimiterCount; d++ {
		st.Mode[d] = modeOf(st.Counts[d])
		st.CV[d] = cvOf(st.Counts[d])
	}
	if len(lines) > 0 {
		st.MeanNumericRatio = ratioSum / float64(len(lines))
	}
	return st
}

// modeOf returns the most common value, breaking ties toward the lowest
// value. Zero for an empty series.
func modeOf(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	freq := make(map[int]int, len(xs))
	for _, x := range xs {
		freq[x]++
	}
	best, bestFreq := 0, -1
	for x, f := range freq {
		if f > bestFreq || (f == bestFreq && x < best) {
			best, bestFreq = x, f
		}
	}
	return best
}

func meanOf(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// cvOf is the coefficient of variation (sample stddev over mean). Empty and
// constant series both yield 0.
func cvOf(xs []int) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := meanOf(xs)
	if m == 0 {
		return 0
	}
	ss := 0.0
	for _, x := range xs {
		d := float64(x) - m
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(xs)-1)) / m
}
