package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunvale/sevendays/pkg/lang"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	fmt.Print("Your name: ")
	var playerID string
	if _, err := fmt.Scanf("%s", &playerID); err != nil || playerID == "" {
		fmt.Fprintf(os.Stderr, "A player name is required\n")
		os.Exit(1)
	}

	fmt.Print("Language / 语言 (1 - English, 2 - 中文): ")
	var langChoice int
	if _, err := fmt.Scanf("%d", &langChoice); err != nil || langChoice < 1 || langChoice > 2 {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}
	l := lang.English
	if langChoice == 2 {
		l = lang.Chinese
	}

	npcs, err := listNPCs(client, cfg.APIBaseURL, playerID, string(l))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list villagers: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nThe villagers of Sunvale:")
	for i, n := range npcs {
		marker := " "
		switch {
		case n.Completed:
			marker = "✓"
		case n.Reachable:
			marker = "•"
		}
		fmt.Printf("  %d %s Day %d - %s\n", i+1, marker, n.Day, n.Name)
	}
	fmt.Print("\nWho will you visit? ")

	var choice int
	if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(npcs) {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}
	selected := npcs[choice-1]

	reply, err := sendDialogue(client, cfg.APIBaseURL, dialogueRequest{
		PlayerID: playerID,
		Action:   "open",
		NPCID:    selected.ID,
		Lang:     string(l),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open dialogue: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, playerID, l, selected, reply),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
