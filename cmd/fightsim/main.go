// Command fightsim is the runnable demo that plays every external
// collaborator spec.md §6 treats as out of the core's scope: it
// generates scripted local input, opens two loopback UDP sockets, runs
// one rollback.Engine per side, encodes/decodes wire.Packets across the
// sockets, records a replay.Recorder, and on completion saves a match
// record, carrying the RPLK-encoded replay bytes, to the configured store.
package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chrismaghuhn/rollback-playground/internal/config"
	"github.com/chrismaghuhn/rollback-playground/internal/replay"
	"github.com/chrismaghuhn/rollback-playground/internal/rollback"
	"github.com/chrismaghuhn/rollback-playground/internal/sim"
	"github.com/chrismaghuhn/rollback-playground/internal/spectate"
	"github.com/chrismaghuhn/rollback-playground/internal/store"
	"github.com/chrismaghuhn/rollback-playground/internal/wire"
)

// matchFrames is how long the scripted demo match runs.
const matchFrames = 300

// redundancy is how many trailing frames each outgoing packet repeats,
// so a single UDP loss does not stall the receiver.
const redundancy = 8

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	hub := spectate.NewHub()
	go hub.Run()
	go serveSpectators(cfg.SpectateAddr, hub)

	seed := uint32(time.Now().UnixNano()%0xFFFFFFFE) + 1

	p1Conn, p2Conn, err := loopbackPair()
	if err != nil {
		slog.Error("failed to open loopback UDP pair", "error", err)
		os.Exit(1)
	}
	defer p1Conn.Close()
	defer p2Conn.Close()

	initial, err := sim.NewState(seed)
	if err != nil {
		slog.Error("failed to construct initial state", "error", err)
		os.Exit(1)
	}

	startedAt := time.Now()

	result := make(chan sideResult, 2)
	go runSide(cfg, rollback.RoleP1, initial, p1Conn, p2Conn.LocalAddr(), hub, result)
	go runSide(cfg, rollback.RoleP2, initial, p2Conn, p1Conn.LocalAddr(), nil, result)

	first := <-result
	second := <-result
	if first.err != nil {
		slog.Error("side failed", "role", first.role, "error", first.err)
		os.Exit(1)
	}
	if second.err != nil {
		slog.Error("side failed", "role", second.role, "error", second.err)
		os.Exit(1)
	}

	p1Side, p2Side := first, second
	if p1Side.role != rollback.RoleP1 {
		p1Side, p2Side = second, first
	}

	final := p1Side.final
	hash := sim.Hash(final)
	slog.Info("match complete",
		"seed", seed,
		"frames", matchFrames,
		"state_hash", hash,
		"p1_rollbacks", p1Side.rollbackCount,
		"p2_rollbacks", p2Side.rollbackCount,
	)

	if err := persistMatch(cfg, seed, final, startedAt); err != nil {
		slog.Warn("match persistence skipped", "error", err)
	}
}

type sideResult struct {
	role          rollback.Role
	final         sim.State
	rollbackCount int
	err           error
}

// runSide drives one local rollback.Engine end to end: scripted local
// input feeds Tick, outgoing packets carry the last `redundancy` local
// frames, and incoming packets feed SetRemoteInput for every frame they
// carry. The loop paces itself to cfg.TickRate so two local sides
// sharing one process don't simply race each other to completion.
func runSide(cfg *config.Config, role rollback.Role, initial sim.State, conn *net.UDPConn, peer net.Addr, hub *spectate.Hub, out chan<- sideResult) {
	engine, err := rollback.New(initial, cfg.HistoryCapacity, role)
	if err != nil {
		out <- sideResult{role: role, err: err}
		return
	}

	recv := make(chan wire.Packet, 256)
	go recvLoop(conn, recv)

	local := make([]sim.Input, 0, redundancy)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
	defer ticker.Stop()

	for frame := uint32(0); frame < matchFrames; frame++ {
		<-ticker.C

		input := scriptedInput(role, frame)

		drainIncoming(engine, recv)

		engine.Tick(input)

		local = append(local, input)
		if len(local) > redundancy {
			local = local[len(local)-redundancy:]
		}
		sendPacket(conn, peer, frame, local, engine)

		if hub != nil {
			hub.Broadcast(spectate.StatSnapshot{
				Frame:               engine.CurrentFrame(),
				StateHash:           sim.Hash(engine.CurrentState()),
				RollbackCount:       engine.RollbackCount,
				RollbackFramesTotal: engine.RollbackFramesTotal,
				MaxRollbackDepth:    engine.MaxRollbackDepth,
			})
		}
	}

	// Drain any remaining in-flight confirmations so the final state
	// reflects every frame the peer actually sent.
	deadline := time.After(200 * time.Millisecond)
drain:
	for {
		select {
		case pkt := <-recv:
			applyPacket(engine, pkt)
		case <-deadline:
			break drain
		}
	}

	out <- sideResult{role: role, final: engine.CurrentState(), rollbackCount: engine.RollbackCount}
}

func drainIncoming(engine *rollback.Engine, recv <-chan wire.Packet) {
	for {
		select {
		case pkt := <-recv:
			applyPacket(engine, pkt)
		default:
			return
		}
	}
}

func applyPacket(engine *rollback.Engine, pkt wire.Packet) {
	for i, in := range pkt.Buttons {
		frame := pkt.StartFrame + uint32(i)
		if err := engine.SetRemoteInput(frame, in); err != nil {
			slog.Warn("dropping remote input", "frame", frame, "error", err)
		}
	}
}

func sendPacket(conn *net.UDPConn, peer net.Addr, frame uint32, local []sim.Input, engine *rollback.Engine) {
	startFrame := frame - uint32(len(local)-1)
	pkt := wire.Packet{
		StartFrame: startFrame,
		AckFrame:   frame,
		Buttons:    local,
	}
	buf := make([]byte, wire.MaxSize)
	n, err := wire.Encode(pkt, buf)
	if err != nil {
		slog.Warn("failed to encode packet", "error", err)
		return
	}
	if _, err := conn.WriteTo(buf[:n], peer); err != nil {
		slog.Warn("failed to send packet", "error", err)
	}
}

func recvLoop(conn *net.UDPConn, out chan<- wire.Packet) {
	buf := make([]byte, wire.MaxSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}
		pkt, ok := wire.Decode(buf[:n])
		if !ok {
			continue // malformed packets are dropped silently
		}
		out <- pkt
	}
}

// scriptedInput reproduces the golden-checksum scenario's scripted
// sequences regardless of which role is asking, so both sides agree on
// the ground truth independently of network delivery.
func scriptedInput(role rollback.Role, frame uint32) sim.Input {
	p1, p2 := func() (sim.Input, sim.Input) {
		var a, b sim.Input
		switch {
		case frame <= 49:
			a = sim.ButtonRight
		case frame == 50:
			a = sim.ButtonJump
		case frame <= 149:
			a = sim.ButtonRight
		case frame <= 199:
			if frame%20 == 0 {
				a = sim.ButtonAttack
			}
		default:
			a = sim.ButtonLeft
		}
		switch {
		case frame <= 99:
			b = sim.ButtonLeft
		case frame <= 119:
			b = sim.ButtonJump
		}
		return a, b
	}()

	if role == rollback.RoleP1 {
		return p1
	}
	return p2
}

func loopbackPair() (*net.UDPConn, *net.UDPConn, error) {
	a, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		return nil, nil, err
	}
	b, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}

func persistMatch(cfg *config.Config, seed uint32, final sim.State, startedAt time.Time) error {
	winner := "draw"
	switch {
	case final.P1.HP > final.P2.HP:
		winner = "p1"
	case final.P2.HP > final.P1.HP:
		winner = "p2"
	}

	rec, err := replay.NewRecorder(seed)
	if err != nil {
		return err
	}
	for f := uint32(0); f < matchFrames; f++ {
		rec.Append(scriptedInput(rollback.RoleP1, f), scriptedInput(rollback.RoleP2, f))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	replayBytes, err := encodeReplay(rec.Build())
	if err != nil {
		return err
	}

	return pg.SaveMatch(ctx, &store.MatchRecord{
		ID:          uuid.New().String(),
		Seed:        seed,
		FrameCount:  matchFrames,
		Winner:      winner,
		StartedAt:   startedAt,
		EndedAt:     time.Now(),
		ReplayBytes: replayBytes,
	})
}

func encodeReplay(r replay.Replay) ([]byte, error) {
	var buf bytes.Buffer
	if err := replay.Write(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var spectateUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveSpectators exposes the spectator hub over a WebSocket endpoint,
// the same way the teacher's cmd/server wires its lobby Hub to HTTP.
func serveSpectators(addr string, hub *spectate.Hub) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/spectate", func(w http.ResponseWriter, r *http.Request) {
		conn, err := spectateUpgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("spectator websocket upgrade failed", "error", err)
			return
		}
		client := spectate.NewClient(uuid.New().String(), hub, conn)
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	})

	slog.Info("spectator server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("spectator server failed", "error", err)
	}
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
