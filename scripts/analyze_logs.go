package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats is what the report is printed from
type LogStats struct {
	Lines            int
	Unparsed         int
	TotalErrors      int
	LoginSuccess     int
	LoginFailures    int
	OTPFailures      int
	OrdersPlaced     int
	PaymentsVerified int
	RequestsByStatus map[int]int
	UserActivities   map[string]int
	ErrorPatterns    map[string]int
}

// logLine is the subset of a zap JSON entry the report needs
type logLine struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Status int    `json:"status"`
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	numberRegex = regexp.MustCompile(`\b\d+\b`)
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding app.log")
	top := flag.Int("top", 5, "entries to show in the top lists")
	flag.Parse()

	logFile := filepath.Join(*logDir, "app.log")
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	defer file.Close()

	stats, err := analyze(file)
	if err != nil {
		fmt.Printf("Error reading log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	printReport(os.Stdout, stats, *top)
}

func newLogStats() *LogStats {
	return &LogStats{
		RequestsByStatus: make(map[int]int),
		UserActivities:   make(map[string]int),
		ErrorPatterns:    make(map[string]int),
	}
}

// analyze reads zap JSON lines and tallies the storefront events
func analyze(r io.Reader) (*LogStats, error) {
	stats := newLogStats()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.Lines++
		var entry logLine
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			stats.Unparsed++
			continue
		}

		if entry.Msg == "request" {
			stats.RequestsByStatus[entry.Status]++
			continue
		}

		switch {
		case strings.HasPrefix(entry.Msg, "User logged in"):
			stats.LoginSuccess++
			extractUserActivity(entry.Msg, stats)
		case strings.HasPrefix(entry.Msg, "Login attempt failed"):
			stats.LoginFailures++
			extractUserActivity(entry.Msg, stats)
		case strings.Contains(entry.Msg, "OTP verification failed"):
			stats.OTPFailures++
			extractUserActivity(entry.Msg, stats)
		case strings.HasPrefix(entry.Msg, "Order ") && strings.Contains(entry.Msg, " placed by user "):
			stats.OrdersPlaced++
		case strings.HasPrefix(entry.Msg, "Payment ") && strings.Contains(entry.Msg, " verified ("):
			stats.PaymentsVerified++
		}

		if entry.Level == "error" {
			stats.TotalErrors++
			stats.ErrorPatterns[errorPattern(entry.Msg)]++
		}
	}
	return stats, scanner.Err()
}

func extractUserActivity(msg string, stats *LogStats) {
	if email := emailRegex.FindString(msg); email != "" {
		stats.UserActivities[email]++
	}
}

// errorPattern strips ids, emails and the error tail so that similar errors group together
func errorPattern(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	msg = emailRegex.ReplaceAllString(msg, "<email>")
	return numberRegex.ReplaceAllString(msg, "<n>")
}

func printReport(w io.Writer, stats *LogStats, limit int) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Lines: %d (unparsed: %d)\n", stats.Lines, stats.Unparsed)

	fmt.Fprintln(w, "\n1. Authentication Statistics:")
	fmt.Fprintf(w, "   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Fprintf(w, "   Failed OTP Verifications: %d\n", stats.OTPFailures)

	fmt.Fprintln(w, "\n2. Checkout Statistics:")
	fmt.Fprintf(w, "   Orders Placed: %d\n", stats.OrdersPlaced)
	fmt.Fprintf(w, "   Payments Verified: %d\n", stats.PaymentsVerified)

	fmt.Fprintln(w, "\n3. Requests by Status:")
	statuses := make([]int, 0, len(stats.RequestsByStatus))
	for status := range stats.RequestsByStatus {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Fprintf(w, "   %d: %d\n", status, stats.RequestsByStatus[status])
	}

	fmt.Fprintln(w, "\n4. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)

	fmt.Fprintln(w, "\n5. Most Active Users:")
	for _, e := range topEntries(stats.UserActivities, limit) {
		fmt.Fprintf(w, "   %s: %d activities\n", e.key, e.count)
	}

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	for _, e := range topEntries(stats.ErrorPatterns, limit) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.key, e.count)
	}
}

type countEntry struct {
	key   string
	count int
}

func topEntries(m map[string]int, limit int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countEntry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
