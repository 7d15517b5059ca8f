// mlstub is a stand-in for the trained scoring model during local
// development: it speaks the same HTTP contract as a real model server and
// returns either a random probability or a fixed one (-prob).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/sirupsen/logrus"
)

func main() {
	port := flag.Int("port", 50052, "listen port")
	prob := flag.Float64("prob", -1, "fixed probability to return (random when negative)")
	flag.Parse()

	log := logrus.New()

	http.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Features []float32 `json:"features"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p := *prob
		if p < 0 {
			p = rand.Float64()
		}
		log.WithFields(logrus.Fields{
			"features":    len(req.Features),
			"probability": p,
		}).Info("stub prediction")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{"probability": p})
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Infof("ml stub listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("ml stub error: %v", err)
	}
}
