// Package mq публикует события о превышении порога задержки в RabbitMQ.
//
// Топология:
//
//	latency.events (topic)
//	└── latency.breaches [routing: breach.#]
//
// Каждое сообщение описывает один регион из ответа /api/latency,
// у которого breaches > 0. Routing key: breach.<region>.
package mq
