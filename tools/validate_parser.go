//go:build ignore

// Validate_parser re-parses captures written by `wizlocal listen --format json`
// and reports how many messages the inbound parser recognises.
//
//	go run tools/validate_parser.go captures/
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/muurk/wizlocal/internal/protocol"
)

// CapturedEvent matches the envelope written by listen and serve
type CapturedEvent struct {
	Type       string          `json:"type"`
	IP         string          `json:"ip"`
	ReceivedAt string          `json:"receivedAt"`
	Message    json.RawMessage `json:"message"`
}

// Statistics tracks parsing results
type Statistics struct {
	TotalMessages  int
	TotalFiles     int
	ParseSuccess   int
	ParseFailure   int
	TypeMismatch   int
	MessageTypes   map[string]int
	Lights         map[string]int
	FailedMessages []FailedMessage
}

// FailedMessage stores information about parsing failures
type FailedMessage struct {
	File       string
	LineNumber int
	Payload    string
	Error      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_parser <directory-or-file>")
		fmt.Println("Example: validate_parser captures/")
		fmt.Println("         validate_parser pushes.jsonl")
		os.Exit(1)
	}

	path := os.Args[1]

	stats := Statistics{
		MessageTypes: make(map[string]int),
		Lights:       make(map[string]int),
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.jsonl"))
		if err != nil {
			fmt.Printf("Error finding JSONL files: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Printf("No JSONL files found in %s\n", path)
			os.Exit(1)
		}
	}

	fmt.Printf("=== wizlocal Capture Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
	if stats.ParseFailure > 0 {
		os.Exit(1)
	}
}

// payloadOf recovers the datagram from an envelope. Unknown messages carry
// it under "raw"; every other type is its own wire form.
func payloadOf(ev CapturedEvent) []byte {
	if ev.Type != "unknown" {
		return ev.Message
	}
	var unknown struct {
		Raw json.RawMessage `json:"raw"`
	}
	if err := json.Unmarshal(ev.Message, &unknown); err != nil || len(unknown.Raw) == 0 {
		return ev.Message
	}
	return unknown.Raw
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	f, err := os.Open(filename)
	if err != nil {
		fmt.Printf("Error reading file %s: %v\n", filename, err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev CapturedEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			fmt.Printf("Error parsing JSON in %s line %d: %v\n", filename, lineNum, err)
			continue
		}
		stats.TotalMessages++

		payload := payloadOf(ev)
		msg, err := protocol.ParseInbound(payload)
		if err != nil {
			stats.ParseFailure++
			stats.FailedMessages = append(stats.FailedMessages, FailedMessage{
				File:       filename,
				LineNumber: lineNum,
				Payload:    string(payload),
				Error:      err.Error(),
			})
			continue
		}

		stats.ParseSuccess++
		got := typeName(msg)
		stats.MessageTypes[got]++
		stats.Lights[ev.IP]++
		if got != ev.Type {
			stats.TypeMismatch++
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading %s: %v\n", filename, err)
	}
}

// typeName mirrors the envelope type field
func typeName(msg protocol.Inbound) string {
	switch msg.(type) {
	case *protocol.SyncPilot:
		return protocol.MethodSyncPilot
	case *protocol.FirstBeat:
		return protocol.MethodFirstBeat
	case *protocol.CommandResponse:
		return "response"
	default:
		return "unknown"
	}
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	total := float64(stats.TotalMessages)
	if total == 0 {
		total = 1
	}
	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Total Messages:     %d\n", stats.TotalMessages)
	fmt.Printf("Parse Success:      %d (%.2f%%)\n", stats.ParseSuccess, float64(stats.ParseSuccess)/total*100)
	fmt.Printf("Parse Failure:      %d (%.2f%%)\n", stats.ParseFailure, float64(stats.ParseFailure)/total*100)
	fmt.Printf("Type Mismatch:      %d\n", stats.TypeMismatch)

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("MESSAGE TYPE DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	for _, name := range sortedKeys(stats.MessageTypes) {
		fmt.Printf("%-12s %d\n", name, stats.MessageTypes[name])
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("MESSAGES PER LIGHT\n")
	fmt.Printf("----------------------------------------\n")
	for _, ip := range sortedKeys(stats.Lights) {
		fmt.Printf("%-15s %d\n", ip, stats.Lights[ip])
	}

	if len(stats.FailedMessages) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("PARSE FAILURES (%d total)\n", len(stats.FailedMessages))
		fmt.Printf("----------------------------------------\n")

		maxShow := 10
		if len(stats.FailedMessages) > maxShow {
			fmt.Printf("(Showing first %d of %d failures)\n", maxShow, len(stats.FailedMessages))
		}
		for i, failed := range stats.FailedMessages {
			if i >= maxShow {
				break
			}
			preview := failed.Payload
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File: %s (line %d)\n", failed.File, failed.LineNumber)
			fmt.Printf("  Error: %s\n", failed.Error)
			fmt.Printf("  Payload: %s\n", preview)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.ParseFailure == 0 {
		fmt.Printf("✅ SUCCESS: All messages parsed successfully!\n")
	} else {
		fmt.Printf("⚠️  ISSUES FOUND: %d messages failed to parse\n", stats.ParseFailure)
	}
	fmt.Printf("========================================\n")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
