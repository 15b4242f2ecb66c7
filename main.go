package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"saberarena/server/internal/arena"
	"saberarena/server/internal/config"
	"saberarena/server/internal/pose"
	"saberarena/server/logging"
	"saberarena/server/logging/sinks"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML tunables file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	router, closeLogging, err := buildLogging(cfg.LoggingRuntime())
	if err != nil {
		log.Fatalf("logging setup: %v", err)
	}
	defer closeLogging()

	hub := newHub(cfg, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: buildMux(hub)}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return hub.RunSimulation(ctx)
	})
	group.Go(func() error {
		log.Printf("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server failed: %v", err)
	}
}

// buildLogging assembles the configured sinks behind a router. The returned
// closer drains the queue and flushes file sinks.
func buildLogging(cfg logging.Config) (*logging.Router, func(), error) {
	var named []logging.NamedSink
	var jsonFile *os.File

	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsole(os.Stdout)})
	}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open json log %s: %w", cfg.JSON.FilePath, err)
		}
		jsonFile = f
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f, cfg.JSON.FlushInterval)})
	}
	if cfg.HasSink("memory") {
		named = append(named, logging.NamedSink{Name: "memory", Sink: sinks.NewMemory()})
	}

	router := logging.NewRouter(nil, cfg, named)
	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
		if jsonFile != nil {
			jsonFile.Close()
		}
	}
	return router, closer, nil
}

func buildMux(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := json.Marshal(hub.Join())
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed: %v", err)
			return
		}
		subID, sub := hub.Subscribe(conn)
		readLoop(hub, subID, sub)
	})

	return mux
}

// readLoop decodes client messages until the connection drops. It runs on
// the websocket goroutine; everything it touches on the hub is buffered
// behind the hub mutex for the next simulation tick.
func readLoop(hub *Hub, subID string, sub *subscriber) {
	defer hub.Disconnect(subID)

	for {
		_, payload, err := sub.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", subID, err)
			continue
		}

		switch msg.Type {
		case "pose_frame":
			hub.SubmitFrame(frameFromWire(msg))
		case "swing":
			hub.QueueSwing()
		case "blocking":
			hub.SetBlocking(msg.Blocking)
		case "recalibrate":
			hub.Recalibrate()
		case "start":
			hub.Start(startCommand{
				difficulty: parseDifficulty(msg.Difficulty),
				networked:  msg.Networked,
			})
		case "weapon_state":
			hub.UpdatePeerWeapon(subID, msg)
		case "heartbeat":
			now := time.Now()
			hub.UpdateHeartbeat(subID, now)
			ack, err := json.Marshal(heartbeatMessage{
				Ver:        protocolVersion,
				Type:       "heartbeat",
				ServerTime: now.UnixMilli(),
				ClientTime: msg.ClientTime,
			})
			if err != nil {
				continue
			}
			sub.mu.Lock()
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			writeErr := sub.conn.WriteMessage(websocket.TextMessage, ack)
			sub.mu.Unlock()
			if writeErr != nil {
				return
			}
		default:
			log.Printf("unknown message type %q from %s", msg.Type, subID)
		}
	}
}

// frameFromWire converts a pose_frame payload to a detector frame. Parallel
// arrays keep identical indexing; the mapper validates lengths and values.
func frameFromWire(msg clientMessage) *pose.Frame {
	frame := &pose.Frame{
		Image:       make([]pose.ImagePoint, len(msg.Landmarks)),
		World:       make([]pose.WorldPoint, len(msg.WorldLandmarks)),
		TimestampMs: msg.TimestampMs,
	}
	for i, lm := range msg.Landmarks {
		frame.Image[i] = pose.ImagePoint{X: lm.X, Y: lm.Y, Z: lm.Z}
	}
	for i, lm := range msg.WorldLandmarks {
		frame.World[i] = pose.WorldPoint{X: lm.X, Y: lm.Y, Z: lm.Z}
	}
	return frame
}

func parseDifficulty(name string) arena.Difficulty {
	switch name {
	case string(arena.DifficultyEasy):
		return arena.DifficultyEasy
	case string(arena.DifficultyHard):
		return arena.DifficultyHard
	default:
		return arena.DifficultyNormal
	}
}
