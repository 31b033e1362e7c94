package webserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"f1dashbot/pkg/circuits"
	"f1dashbot/pkg/pubsub"
	"f1dashbot/pkg/standings"
	"f1dashbot/pkg/trackmap"
)

var upgrader = websocket.Upgrader{} // use default options

type SeasonsProvider interface {
	GetSeasons(ctx context.Context) ([]int, error)
}

// Manager serves the browser dashboard its data: standings matrices,
// circuit markers, track layouts and elevation profiles. The rendering
// itself happens client side.
type Manager struct {
	r            *mux.Router
	srv          *http.Server
	standingsMgr *standings.Manager
	circuitsMgr  *circuits.Manager
	trackMgr     *trackmap.Manager
	seasons      SeasonsProvider

	mu     sync.Mutex
	latest string // last standings payload published on the bus
	rev    uint64
}

func NewManager(standingsMgr *standings.Manager, circuitsMgr *circuits.Manager, trackMgr *trackmap.Manager, seasons SeasonsProvider, pubsubMgr *pubsub.PubSub) *Manager {
	m := &Manager{
		r:            mux.NewRouter(),
		standingsMgr: standingsMgr,
		circuitsMgr:  circuitsMgr,
		trackMgr:     trackMgr,
		seasons:      seasons,
	}

	m.addHandlers()
	go m.consumeStandings(pubsubMgr.Subscribe(pubsub.StandingsTopic))
	return m
}

func (m *Manager) addHandlers() {
	m.r.HandleFunc("/api/seasons", m.seasonsHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/api/standings/{year:[0-9]+}", m.standingsHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/api/circuits/{year:[0-9]+}", m.circuitsHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/api/track/{year:[0-9]+}/{round:[0-9]+}/layout.svg", m.layoutHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/api/track/{year:[0-9]+}/{round:[0-9]+}/elevation", m.elevationHandler).Methods(http.MethodGet)
	m.r.HandleFunc("/live", m.websocketHandler)
}

func (m *Manager) consumeStandings(ch <-chan string) {
	for payload := range ch {
		m.mu.Lock()
		m.latest = payload
		m.rev++
		m.mu.Unlock()
	}
}

func (m *Manager) seasonsHandler(w http.ResponseWriter, r *http.Request) {
	seasons, err := m.seasons.GetSeasons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, seasons)
}

func (m *Manager) standingsHandler(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(mux.Vars(r)["year"])

	if matrix, ok := m.standingsMgr.Current(); ok && matrix.Season == year {
		writeJSON(w, matrix)
		return
	}

	matrix, err := m.standingsMgr.Select(r.Context(), year)
	if errors.Is(err, standings.ErrStale) {
		// a newer selection won; this response must not be displayed
		w.WriteHeader(http.StatusConflict)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, matrix)
}

func (m *Manager) circuitsHandler(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(mux.Vars(r)["year"])
	markers, err := m.circuitsMgr.GetMarkers(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, markers)
}

func (m *Manager) layoutHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	round, _ := strconv.Atoi(vars["round"])

	path, err := m.trackMgr.GetLayoutSVG(r.Context(), year, round)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	http.ServeFile(w, r, path)
}

func (m *Manager) elevationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	round, _ := strconv.Atoi(vars["round"])

	profile, err := m.trackMgr.GetProfile(r.Context(), year, round)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile)
}

// websocketHandler pushes the standings payload to the dashboard whenever
// a refresh lands.
func (m *Manager) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()

	t := time.NewTicker(time.Second)
	defer t.Stop()

	var sent uint64
	for {
		select {
		case <-t.C:
			m.mu.Lock()
			payload, rev := m.latest, m.rev
			m.mu.Unlock()
			if rev == sent || payload == "" {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				log.Println("write:", err)
				return
			}
			sent = rev
		case <-r.Context().Done():
			log.Print("websocket closed\n")
			return
		}
	}
}

func (m *Manager) Serve(addr string) {
	m.srv = &http.Server{
		Addr: addr,
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.Printf("webserver listening on %s\n", addr)
		if err := m.srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()
}

func (m *Manager) Shutdown() {
	if m.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.srv.Shutdown(ctx)
	log.Println("webserver shutting down")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %s", err.Error())
	}
}

func writeError(w http.ResponseWriter, err error) {
	log.Printf("Error serving request: %s", err.Error())
	http.Error(w, err.Error(), http.StatusBadGateway)
}
