// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         Handler с DI (aggregator, notifier, logger, metrics)
//   - routes.go          регистрация маршрутов
//   - middleware.go      middleware (CORS, request id, logging, metrics, recovery)
//   - response.go        JSON-ответы и обработка ошибок
//   - dto.go             Data Transfer Objects (request/response)
//   - latency_handler.go POST /api/latency
//
// CORS заголовки ставит один middleware для всех ответов, включая
// ошибки и preflight.
package api
