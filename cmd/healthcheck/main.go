// Command healthcheck is a standalone operator tool that smoke-tests each
// language toolchain's compiler/interpreter is reachable on PATH and that
// the worker's /health endpoint responds.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"
)

type feedbackRow struct {
	unit    string
	health  int // 0 = OK, 1 = warning, 2 = error
	message string
}

var toolchains = map[string]string{
	"c":      "gcc",
	"python": "python3",
	"java":   "javac",
	"rust":   "rustc",
	"go":     "go",
}

func main() {
	var feedback []feedbackRow
	for lang, binary := range toolchains {
		feedback = append(feedback, checkToolchain(lang, binary))
	}
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		feedback = append(feedback, checkHealthEndpoint(addr))
	}

	outputFeedback(feedback)
}

func checkToolchain(lang, binary string) feedbackRow {
	path, err := exec.LookPath(binary)
	if err != nil {
		return feedbackRow{unit: lang, health: 2, message: fmt.Sprintf("%s not found on PATH", binary)}
	}
	return feedbackRow{unit: lang, health: 0, message: path}
}

func checkHealthEndpoint(addr string) feedbackRow {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return feedbackRow{unit: "http /health", health: 2, message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return feedbackRow{unit: "http /health", health: 1, message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return feedbackRow{unit: "http /health", health: 0, message: "ok"}
}

func outputFeedback(feedback []feedbackRow) {
	for _, row := range feedback {
		switch row.health {
		case 0:
			color.Green("OK    %-16s %s", row.unit, row.message)
		case 1:
			color.Yellow("WARN  %-16s %s", row.unit, row.message)
		default:
			color.Red("ERROR %-16s %s", row.unit, row.message)
		}
	}
}
