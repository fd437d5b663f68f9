// Command gbinfo loads a Game Boy cartridge image and exercises the
// core loader, CPU and address router without a PPU/APU/input loop,
// printing diagnostics and optionally streaming a step trace or
// rendering a memory-region usage histogram.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gobcore/internal/cartridge"
	"gobcore/internal/cpu"
	"gobcore/internal/memory"
	"gobcore/pkg/gblog"
	"gobcore/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "the ROM file to load (.gb/.gbc, optionally inside .zip/.7z)")
	traceSteps := flag.Int("trace", 0, "run the CPU for N steps and stream a JSON trace over a websocket")
	traceAddr := flag.String("trace-addr", "localhost:6060", "address the trace websocket server listens on")
	histogram := flag.String("histogram", "", "write a memory-region usage histogram PNG to this path")
	flag.Parse()

	path := *romFile
	if path == "" {
		picked, err := utils.AskForFile("select a Game Boy ROM", ".")
		if err != nil {
			fmt.Fprintln(os.Stderr, "gbinfo:", err)
			os.Exit(1)
		}
		path = picked
	}

	rom, err := utils.LoadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gbinfo: loading ROM:", err)
		os.Exit(1)
	}

	log := gblog.New()
	mem, err := memory.From(rom, memory.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, "gbinfo:", err)
		os.Exit(1)
	}

	header := mem.Header()
	fmt.Println(header.String())
	fmt.Printf("digest: %s\n", cartridge.Digest(rom))

	stats := mem.Stats()
	fmt.Printf("rom bank0=%dB switchable=%d*%dB ram=%dB vram=%dB wram=%dB oam=%dB io=%dB hram=%dB\n",
		stats.ROMBankBytes, stats.SwitchableBanks, stats.SwitchableBankBytes,
		stats.RAMBytes, stats.VRAMBytes, stats.WRAMBytes, stats.OAMBytes,
		stats.IORegisterBytes, stats.HRAMBytes)

	if *histogram != "" {
		if err := renderHistogram(*histogram, stats); err != nil {
			fmt.Fprintln(os.Stderr, "gbinfo: histogram:", err)
			os.Exit(1)
		}
	}

	if *traceSteps > 0 {
		if err := runTrace(mem, log, *traceSteps, *traceAddr); err != nil {
			fmt.Fprintln(os.Stderr, "gbinfo: trace:", err)
			os.Exit(1)
		}
	}
}

// traceEntry is one JSON line streamed per executed CPU.Step.
type traceEntry struct {
	Step int    `json:"step"`
	PC   uint16 `json:"pc"`
	Regs string `json:"registers"`
}

// runTrace executes the CPU for n steps against mem, serving each
// step's register snapshot as a JSON line to whichever client connects
// to a single websocket endpoint. It blocks until one client connects
// or the server is closed.
func runTrace(mem *memory.Memory, log gblog.Logger, n int, addr string) error {
	c := cpu.New(0x0100, false, mem.Header().HeaderChecksum, cpu.WithLogger(log))

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn := make(chan *websocket.Conn, 1)
	srv := &http.Server{Addr: addr}
	http.HandleFunc("/trace", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn <- ws
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	defer srv.Close()

	fmt.Printf("gbinfo: waiting for a trace client at ws://%s/trace\n", addr)
	var ws *websocket.Conn
	select {
	case ws = <-conn:
	case err := <-serveErr:
		return err
	}
	defer ws.Close()

	for i := 0; i < n; i++ {
		entry := traceEntry{Step: i, PC: c.PC, Regs: c.String()}
		if err := c.Step(mem); err != nil {
			entry.Regs = fmt.Sprintf("%s error=%v", entry.Regs, err)
			payload, _ := json.Marshal(entry)
			return ws.WriteMessage(websocket.TextMessage, payload)
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	return nil
}

// renderHistogram draws a bar chart of per-region byte counts to a PNG.
func renderHistogram(path string, stats memory.MemoryStats) error {
	labels := []string{"rom0", "switchable", "ram", "vram", "wram", "oam", "io", "hram"}
	values := []float64{
		float64(stats.ROMBankBytes),
		float64(stats.SwitchableBankBytes),
		float64(stats.RAMBytes),
		float64(stats.VRAMBytes),
		float64(stats.WRAMBytes),
		float64(stats.OAMBytes),
		float64(stats.IORegisterBytes),
		float64(stats.HRAMBytes),
	}

	p := plot.New()
	p.Title.Text = "memory region byte usage"
	p.Y.Label.Text = "bytes"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
