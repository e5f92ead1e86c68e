package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	mstats "github.com/montanaflynn/stats"
)

// Precision задаёт число знаков после запятой в ответах API.
const Precision = 2

var (
	// ErrEmpty возвращается для пустой выборки.
	ErrEmpty = errors.New("empty sample set")

	// ErrPercentileRange возвращается, если p вне [0, 100].
	ErrPercentileRange = errors.New("percentile out of range")
)

// Mean возвращает среднее арифметическое.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	m, err := mstats.Mean(values)
	if err != nil {
		return 0, fmt.Errorf("mean: %w", err)
	}
	return m, nil
}

// Percentile возвращает p-й перцентиль с линейной интерполяцией
// между соседними порядковыми статистиками. Входной срез не меняется.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("%w: %v", ErrPercentileRange, p)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}

	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// Round округляет до Precision знаков по точному двоичному значению v;
// настоящая половина округляется к чётной цифре. NaN и Inf не меняются.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', Precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// CountAbove считает значения строго больше threshold.
func CountAbove(values []float64, threshold float64) int {
	n := 0
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return n
}
