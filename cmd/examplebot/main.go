// File: cmd/examplebot/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lunarwatcher/albot/bot"
	"github.com/lunarwatcher/albot/gamedata"
	"github.com/lunarwatcher/albot/utils"
)

// Default server if ALBOT_SERVER isn't set.
const defaultServer = "localhost:3000"

func main() {
	// 0. Load configuration.
	cfg := utils.DefaultConfig()
	fmt.Printf("Configuration loaded. Tick period: %v, diagnostic period: %v\n",
		cfg.TickPeriod, cfg.DiagnosticPeriod)

	server := os.Getenv("ALBOT_SERVER")
	if server == "" {
		server = defaultServer
		fmt.Printf("ALBOT_SERVER not set, defaulting to %s\n", server)
	}

	// 1. Build the static game-data provider.
	data := gamedata.NewStatic(map[string]gamedata.MonsterData{
		"bee":    {Speed: 50, HP: 60},
		"crab":   {Speed: 40, HP: 100},
		"goblin": {Speed: 60, HP: 40},
	})

	// 2. Describe the host and credentials.
	host := bot.HostInfo{
		Server:    server,
		Character: "examplebot",
		CharID:    os.Getenv("ALBOT_CHARACTER"),
		Auth:      os.Getenv("ALBOT_AUTH"),
		User:      os.Getenv("ALBOT_USER"),
	}

	// 3. Wire callbacks.
	callbacks := bot.Callbacks{
		OnConnect: func() {
			fmt.Println("bot connected and spawned into the world")
		},
		OnDisconnect: func(reason string) {
			fmt.Printf("bot disconnected: %s\n", reason)
		},
		OnGameError: func(data []byte) {
			fmt.Printf("game_error: %s\n", string(data))
		},
	}

	// 4. Build and connect the Bot Facade.
	b := bot.New(host, cfg, data, callbacks)
	if err := b.Connect(); err != nil {
		fmt.Println("connect failed:", err)
		os.Exit(1)
	}
	fmt.Println("bot connected, running until interrupted")

	// 5. Run until interrupted.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			fmt.Println("shutting down")
			b.Stop()
			return
		case <-ticker.C:
			fmt.Printf("status: alive=%v hp=%.0f/%.0f pos=(%.1f, %.1f)\n",
				b.IsAlive(), b.HP(), b.MaxHP(), b.X(), b.Y())
		}
	}
}
