package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"BotShooter/internal/scores"
)

// ScoreStore is the part of scores.Store the HTTP layer needs.
type ScoreStore interface {
	Top(ctx context.Context, limit int) ([]scores.Entry, error)
	Insert(ctx context.Context, initials string, score int64) (scores.Entry, error)
}

type scoreCreated struct {
	ID       int64  `json:"id"`
	Initials string `json:"player_initials"`
	Score    int64  `json:"score"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

const maxScoreBody = 1 << 16

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, scores.ErrNoDatabase) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Database configuration error"})
		return
	}
	log.Printf("scores: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal Server Error", Error: err.Error()})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusNotFound, errorBody{Message: "Not Found"})
}

func scoresHandler(store ScoreStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			handleListScores(store, w, r)
		case http.MethodPost:
			handleCreateScore(store, w, r)
		default:
			writeJSON(w, http.StatusNotFound, errorBody{Message: "Not Found"})
		}
	}
}

func handleListScores(store ScoreStore, w http.ResponseWriter, r *http.Request) {
	limit := scores.ParseLimit(r.URL.Query().Get("limit"))
	rows, err := store.Top(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func handleCreateScore(store ScoreStore, w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxScoreBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid JSON body"})
		return
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid JSON body"})
		return
	}
	score, err := scores.ParseScore(body["score"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Score must be a number"})
		return
	}
	initials := scores.NormalizeInitials(body["initials"])
	row, err := store.Insert(r.Context(), initials, score)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scoreCreated{ID: row.ID, Initials: row.Initials, Score: row.Score})
}
