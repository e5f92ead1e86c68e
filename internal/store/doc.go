// Package store хранит телеметрию, загруженную при старте сервиса.
//
// Store неизменяем после New: все запросы читают его без блокировок.
// Источники данных:
//   - file.go     JSON fixture (массив {region, latency_ms, uptime_pct})
//   - source.go   выбор источника (file или postgres) по конфигурации
//
// Ошибка загрузки фатальна: сервис без данных не поднимается.
package store
