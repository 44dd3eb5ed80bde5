package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/progress"
)

// dialogueRequest matches the API request structure.
type dialogueRequest struct {
	PlayerID string          `json:"player_id"`
	Action   string          `json:"action"`
	NPCID    string          `json:"npc_id,omitempty"`
	Lang     string          `json:"lang,omitempty"`
	Message  string          `json:"message,omitempty"`
	Choice   dialogue.Choice `json:"choice,omitempty"`
	MealType meal.Type       `json:"meal_type,omitempty"`
	Answer   string          `json:"answer,omitempty"`
}

// npcEntry matches one cast member in the API's NPC list.
type npcEntry struct {
	ID        string `json:"id"`
	Day       int    `json:"day"`
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	Completed bool   `json:"completed"`
}

type npcListResponse struct {
	NPCs []npcEntry `json:"npcs"`
}

// progressResponse matches the API's progress payload.
type progressResponse struct {
	Progress *progress.Progress `json:"progress"`
	Meals    []meal.Record      `json:"meals"`
	Clues    []clue.Record      `json:"clues"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func sendDialogue(client *http.Client, baseURL string, req dialogueRequest) (*engine.Reply, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/dialogue",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var reply engine.Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse reply: %w", err)
	}
	return &reply, nil
}

func listNPCs(client *http.Client, baseURL, playerID, langCode string) ([]npcEntry, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/npcs?player_id=%s&lang=%s", baseURL, playerID, langCode))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to list villagers: %s", errorResp.Error)
	}

	var list npcListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse villager list: %w", err)
	}
	return list.NPCs, nil
}

func getProgress(client *http.Client, baseURL, playerID string) (*progressResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/progress/%s", baseURL, playerID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get progress: %s", errorResp.Error)
	}

	var pr progressResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse progress: %w", err)
	}
	return &pr, nil
}

// getSummary returns (nil, nil) while the summary is still being
// generated, so callers can poll.
func getSummary(client *http.Client, baseURL, playerID string) (*services.Summary, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/summary/%s", baseURL, playerID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get summary: %s", errorResp.Error)
	}

	var summary services.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &summary, nil
}
