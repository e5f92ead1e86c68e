package store

import (
	"fmt"
	"math"

	"github.com/shaiso/latency/internal/domain"
)

// Store индексирует samples по региону. Порядок samples внутри региона
// совпадает с порядком загрузки.
type Store struct {
	byRegion map[string][]domain.Sample
	regions  []string
	total    int
}

// New строит Store из samples. Срез копируется, дальнейшие изменения
// исходного среза на Store не влияют.
func New(samples []domain.Sample) *Store {
	s := &Store{
		byRegion: make(map[string][]domain.Sample),
		total:    len(samples),
	}
	for _, sample := range samples {
		if _, ok := s.byRegion[sample.Region]; !ok {
			s.regions = append(s.regions, sample.Region)
		}
		s.byRegion[sample.Region] = append(s.byRegion[sample.Region], sample)
	}
	return s
}

// Lookup возвращает копию samples региона. Для неизвестного региона nil.
func (s *Store) Lookup(region string) []domain.Sample {
	samples, ok := s.byRegion[region]
	if !ok {
		return nil
	}
	out := make([]domain.Sample, len(samples))
	copy(out, samples)
	return out
}

// Regions возвращает регионы в порядке первого появления.
func (s *Store) Regions() []string {
	out := make([]string, len(s.regions))
	copy(out, s.regions)
	return out
}

// Len возвращает общее число samples.
func (s *Store) Len() int {
	return s.total
}

// Validate проверяет одну запись. index нужен только для сообщения.
func Validate(index int, sample domain.Sample) error {
	switch {
	case sample.Region == "":
		return fmt.Errorf("%w: record %d: empty region", ErrMalformed, index)
	case math.IsNaN(sample.LatencyMs) || math.IsInf(sample.LatencyMs, 0):
		return fmt.Errorf("%w: record %d: latency_ms is not a number", ErrMalformed, index)
	case sample.LatencyMs < 0:
		return fmt.Errorf("%w: record %d: negative latency_ms %v", ErrMalformed, index, sample.LatencyMs)
	case math.IsNaN(sample.UptimePct) || math.IsInf(sample.UptimePct, 0):
		return fmt.Errorf("%w: record %d: uptime_pct is not a number", ErrMalformed, index)
	}
	return nil
}
