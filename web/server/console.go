package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultConsoleHistory is the number of recent messages kept for /api/console
const DefaultConsoleHistory = 200

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// ConsoleLog keeps the most recent console messages of every render
type ConsoleLog struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	limit    int
}

// NewConsoleLog creates a log holding at most limit messages
func NewConsoleLog(limit int) *ConsoleLog {
	if limit <= 0 {
		limit = DefaultConsoleHistory
	}
	return &ConsoleLog{limit: limit}
}

// Add appends a message, dropping the oldest once the log is full
func (cl *ConsoleLog) Add(msg ConsoleMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if len(cl.messages) == cl.limit {
		copy(cl.messages, cl.messages[1:])
		cl.messages = cl.messages[:cl.limit-1]
	}
	cl.messages = append(cl.messages, msg)
}

// Recent returns a copy of the stored messages, oldest first
func (cl *ConsoleLog) Recent() []ConsoleMessage {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return append([]ConsoleMessage(nil), cl.messages...)
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	history     *ConsoleLog
}

// NewWebLogger creates a new web logger for a specific render. consoleChan and history may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, history *ConsoleLog) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		history:     history,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Print(message)

	msg := ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}
	if wl.history != nil {
		wl.history.Add(msg)
	}

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- msg:
		default:
			// Channel full, skip (don't block)
		}
	}
}
