package server

import (
	"log"
	"net/http"
)

func (a *App) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/scores", scoresHandler(a.Scores))
	mux.HandleFunc("/ws", a.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", notFound)
	return mux
}

func startServer(a *App, addr string) {
	log.Fatal(http.ListenAndServe(addr, a.routes()))
}
