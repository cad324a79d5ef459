// Package transcript reads the session transcripts the sage CLI writes
// as JSONL files under its projects directory. Each line is one wire
// record; lines that do not decode to a conversation message are
// skipped.
package transcript

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sageagent/sage-sdk-go/pkg/sage/decode"
	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
)

const (
	scanBufferSize = 64 * 1024
	maxLineSize    = 10 * 1024 * 1024
	pollInterval   = 100 * time.Millisecond
)

// Reader reads one session transcript. A Reader is not safe for
// concurrent use.
type Reader struct {
	path string
	file *os.File
}

// NewReader opens the transcript at path.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}

	return &Reader{path: path, file: file}, nil
}

// Path returns the transcript file path.
func (r *Reader) Path() string {
	return r.path
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}

	return r.file.Close()
}

// ReadAll reads every conversation message in the transcript.
func (r *Reader) ReadAll() ([]messages.Message, error) {
	msgs, _, err := r.ReadFrom(0)

	return msgs, err
}

// ReadFrom reads messages starting at the given byte offset and returns
// the offset after the last line consumed, suitable for resuming.
func (r *Reader) ReadFrom(offset int64) ([]messages.Message, int64, error) {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek transcript: %w", err)
	}

	var msgs []messages.Message

	scanner := bufio.NewScanner(r.file)
	scanner.Buffer(make([]byte, scanBufferSize), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		offset += int64(len(line)) + 1
		if msg, ok := decodeLine(line); ok {
			msgs = append(msgs, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("scan transcript: %w", err)
	}

	return msgs, offset, nil
}

// Tail follows the transcript and delivers messages appended after the
// call. The channel closes when ctx is canceled. File watching uses
// fsnotify with a polling fallback.
func (r *Reader) Tail(ctx context.Context) <-chan messages.Message {
	ch := make(chan messages.Message, 100)

	go func() {
		defer close(ch)

		offset, err := r.file.Seek(0, io.SeekEnd)
		if err != nil {
			return
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			r.tailPolling(ctx, ch, offset)

			return
		}
		defer func() { _ = watcher.Close() }()

		// Watching the directory survives file replacement better
		// than watching the file itself.
		if err := watcher.Add(filepath.Dir(r.path)); err != nil {
			r.tailPolling(ctx, ch, offset)

			return
		}

		r.tailWatch(ctx, ch, watcher, offset)
	}()

	return ch
}

func (r *Reader) tailWatch(ctx context.Context, ch chan<- messages.Message, watcher *fsnotify.Watcher, offset int64) {
	reader := bufio.NewReader(r.file)
	base := filepath.Base(r.path)

	var carry []byte

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base || !event.Has(fsnotify.Write) {
				continue
			}

			offset = r.handleGrowth(ctx, ch, reader, &carry, offset)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (r *Reader) tailPolling(ctx context.Context, ch chan<- messages.Message, offset int64) {
	reader := bufio.NewReader(r.file)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var carry []byte

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			offset = r.handleGrowth(ctx, ch, reader, &carry, offset)
		}
	}
}

// handleGrowth resets on truncation, then drains newly appended lines.
func (r *Reader) handleGrowth(ctx context.Context, ch chan<- messages.Message, reader *bufio.Reader, carry *[]byte, offset int64) int64 {
	if info, err := r.file.Stat(); err == nil && info.Size() < offset {
		if _, err := r.file.Seek(0, io.SeekStart); err != nil {
			return offset
		}
		offset = 0
		reader.Reset(r.file)
		*carry = (*carry)[:0]
	}

	return r.readNew(ctx, ch, reader, carry, offset)
}

// readNew consumes complete lines from reader. A trailing partial line
// is carried over until its newline arrives.
func (r *Reader) readNew(ctx context.Context, ch chan<- messages.Message, reader *bufio.Reader, carry *[]byte, offset int64) int64 {
	for {
		chunk, err := reader.ReadBytes('\n')
		if len(chunk) > 0 {
			offset += int64(len(chunk))
			*carry = append(*carry, chunk...)

			if chunk[len(chunk)-1] == '\n' {
				line := bytes.TrimSpace(*carry)
				*carry = (*carry)[:0]

				if msg, ok := decodeLine(line); ok {
					select {
					case ch <- msg:
					case <-ctx.Done():
						return offset
					}
				}
			}
		}
		if err != nil {
			return offset
		}
	}
}

// decodeLine maps one transcript line to a conversation message.
// Blank, malformed, and non-message lines report false.
func decodeLine(line []byte) (messages.Message, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	var record map[string]any
	if err := json.Unmarshal(line, &record); err != nil {
		return nil, false
	}

	incoming, err := decode.Record(record)
	if err != nil {
		return nil, false
	}

	msg, ok := incoming.(messages.Message)

	return msg, ok
}

// ReadFile reads every conversation message from the transcript at
// path.
func ReadFile(path string) ([]messages.Message, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	return reader.ReadAll()
}
