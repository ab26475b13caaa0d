package line

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alonana/perfshark/core"
)

const maxLineSize = 16 * 1024 * 1024

// ReadFile loads a saved performance log, see Read.
func ReadFile(path string) ([]core.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file %v failed: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read loads either a JSON array of log entries, or one entry per line.
// A line that is not a log entry object is kept as a raw entry message, so
// that the event parser reports it instead of the reader failing.
func Read(reader io.Reader) ([]core.LogEntry, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read log failed: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []core.LogEntry
		err = json.Unmarshal(trimmed, &entries)
		if err != nil {
			return nil, fmt.Errorf("parse log array failed: %w", err)
		}
		core.V1("%v log entries loaded from array", len(entries))
		return entries, nil
	}

	var entries []core.LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseLine(line))
	}
	err = scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan log lines failed: %w", err)
	}

	core.V1("%v log entries loaded from lines", len(entries))
	return entries, nil
}

func parseLine(line string) core.LogEntry {
	var entry core.LogEntry
	err := json.Unmarshal([]byte(line), &entry)
	if err == nil && entry.Message != "" {
		return entry
	}
	core.V5("keeping raw line as message: %v", line)
	return core.LogEntry{Message: line}
}
