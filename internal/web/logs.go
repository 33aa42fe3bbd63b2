package web

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxLogTail = 5000

// LogBuffer is a fixed-size ring of recent log lines. It is an io.Writer so it
// can be teed into the standard logger; a trailing partial line is held until
// its newline arrives.
type LogBuffer struct {
	mu      sync.Mutex
	ring    []string
	next    int
	filled  int
	total   uint64
	partial []byte
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 2000
	}
	return &LogBuffer{ring: make([]string, capacity)}
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.push(string(bytes.TrimRight(data[:i], "\r")))
		data = data[i+1:]
	}
	b.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (b *LogBuffer) push(line string) {
	if line == "" {
		return
	}
	b.ring[b.next] = line
	b.next = (b.next + 1) % len(b.ring)
	if b.filled < len(b.ring) {
		b.filled++
	}
	b.total++
}

// Lines returns up to tail of the newest lines containing match, oldest
// first, and the number of lines written since start.
func (b *LogBuffer) Lines(tail int, match string) ([]string, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, b.filled)
	start := (b.next - b.filled + len(b.ring)) % len(b.ring)
	for i := 0; i < b.filled; i++ {
		line := b.ring[(start+i)%len(b.ring)]
		if match == "" || strings.Contains(line, match) {
			out = append(out, line)
		}
	}
	if tail > 0 && len(out) > tail {
		out = out[len(out)-tail:]
	}
	return out, b.total
}

type LogsResponse struct {
	NowUTC string   `json:"now_utc"`
	Total  uint64   `json:"total"`
	Lines  []string `json:"lines"`
}

// handleLogs serves GET /api/logs?tail=N&q=substr. q=convert narrows the
// output to conversion outcomes.
func (b *LogBuffer) handleLogs(c *gin.Context) {
	tail := 200
	if s := strings.TrimSpace(c.Query("tail")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxLogTail {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tail must be an integer in [1," + strconv.Itoa(maxLogTail) + "]"})
			return
		}
		tail = v
	}

	lines, total := b.Lines(tail, c.Query("q"))
	c.Header("Cache-Control", "no-store")
	c.IndentedJSON(http.StatusOK, LogsResponse{
		NowUTC: time.Now().UTC().Format(time.RFC3339Nano),
		Total:  total,
		Lines:  lines,
	})
}
