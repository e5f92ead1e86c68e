// Package cli реализует инструмент командной строки latency-cli.
//
// CLI работает с API только через HTTP и не импортирует внутренние
// пакеты сервиса, поэтому типы ответов продублированы в client.go.
//
//	latency-cli query --region us-east --region eu-west --threshold 150
//	latency-cli query -r apac --json | jq .
//
// Данные выводятся в stdout (таблица или JSON), сообщения об ошибках в stderr.
package cli
