package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/latency/internal/domain"
)

// DefaultFileName задаёт имя fixture в корне установки.
const DefaultFileName = "q-vercel-latency.json"

// record повторяет формат fixture. Указатели отличают отсутствующее
// поле от нуля.
type record struct {
	Region    *string  `json:"region"`
	LatencyMs *float64 `json:"latency_ms"`
	UptimePct *float64 `json:"uptime_pct"`
}

// LoadFile читает JSON-массив samples из файла.
func LoadFile(path string) ([]domain.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read telemetry file: %w", err)
	}
	return Decode(data)
}

// Decode разбирает JSON-массив samples. Неизвестные поля игнорируются,
// отсутствие region, latency_ms или uptime_pct считается ошибкой.
func Decode(data []byte) ([]domain.Sample, error) {
	var records []record
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}

	samples := make([]domain.Sample, 0, len(records))
	for i, r := range records {
		if r.Region == nil || r.LatencyMs == nil || r.UptimePct == nil {
			return nil, fmt.Errorf("%w: record %d: region, latency_ms and uptime_pct are required", ErrMalformed, i)
		}
		sample := domain.Sample{
			Region:    *r.Region,
			LatencyMs: *r.LatencyMs,
			UptimePct: *r.UptimePct,
		}
		if err := Validate(i, sample); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// ResolvePath делает относительный путь абсолютным относительно корня
// установки: родителя каталога с исполняемым файлом. Пустой путь
// заменяется на DefaultFileName.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	if filepath.IsAbs(path) {
		return path, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return InstallPath(exe, path), nil
}

// InstallPath возвращает path относительно родителя каталога exe.
func InstallPath(exe, path string) string {
	root := filepath.Dir(filepath.Dir(exe))
	return filepath.Join(root, path)
}
