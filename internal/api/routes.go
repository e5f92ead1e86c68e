package api

import (
	"net/http"
)

// RegisterRoutes регистрирует маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/latency", h.Latency)

	// Остальные методы на /api/latency; OPTIONS перехватывает CORS
	mux.Handle("/api/latency", AllowOnly("POST, OPTIONS"))

	// Всё, что не совпало ни с одним маршрутом
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "no route for "+r.URL.Path)
	})
}

// AllowOnly отвечает 405 с заголовком Allow. Регистрируется на путь без
// метода рядом с маршрутами "METHOD /path", иначе запрос с чужим методом
// уйдёт в catch-all и получит 404.
func AllowOnly(allow string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		MethodNotAllowed(w)
	})
}

// Wrap оборачивает весь mux в цепочку middleware. CORS стоит первым,
// поэтому заголовки есть и у ошибок маршрутизации, и у 500 после паники.
func (h *Handler) Wrap(next http.Handler) http.Handler {
	chain := Chain(
		CORS(h.cors),
		RequestID(h.logger),
		Logging(),
		Metrics(h.metrics),
		Recovery(h.logger),
	)
	return chain(next)
}

// Routes возвращает готовый http.Handler только с маршрутами API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h.Wrap(mux)
}
