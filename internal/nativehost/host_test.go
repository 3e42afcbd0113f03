package nativehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bookmarktolearn/btlhost/internal/picker"
	"github.com/bookmarktolearn/btlhost/pkg/logger"
)

// mockPicker implements FolderPicker for testing
type mockPicker struct {
	sel    *picker.Selection
	err    error
	called bool
}

func (m *mockPicker) Pick(ctx context.Context) (*picker.Selection, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	return m.sel, nil
}

// mockSaver implements FileSaver for testing
type mockSaver struct {
	written string
	err     error

	gotPath    string
	gotContent string
}

func (m *mockSaver) Save(path, content string) (string, error) {
	m.gotPath, m.gotContent = path, content
	if m.err != nil {
		return "", m.err
	}
	if m.written != "" {
		return m.written, nil
	}
	return path, nil
}

func newTestHost(saver FileSaver, fp FolderPicker) *Host {
	return &Host{
		saver:   saver,
		picker:  fp,
		log:     logger.NewNopLogger(),
		version: "1.2.0",
	}
}

func decodeResponse(t *testing.T, raw []byte) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("response %s is not valid JSON: %v", raw, err)
	}
	return resp
}

// TestHandleRequestPing verifies the ping health check
func TestHandleRequestPing(t *testing.T) {
	host := newTestHost(&mockSaver{}, &mockPicker{})

	raw := host.handleRequest(context.Background(), &Request{Action: "ping"})

	resp := decodeResponse(t, raw)
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", resp.Version, "1.2.0")
	}
}

// TestHandleRequestPickFolder verifies pick_folder outcome mapping
func TestHandleRequestPickFolder(t *testing.T) {
	tests := []struct {
		name        string
		picker      *mockPicker
		wantSuccess bool
		wantError   string
		wantPath    string
		wantName    string
	}{
		{
			name:        "selection",
			picker:      &mockPicker{sel: &picker.Selection{Path: "/Users/li/Notes", Name: "Notes"}},
			wantSuccess: true,
			wantPath:    "/Users/li/Notes",
			wantName:    "Notes",
		},
		{
			name:      "cancelled",
			picker:    &mockPicker{err: picker.ErrCancelled},
			wantError: "cancelled",
		},
		{
			name:      "timeout",
			picker:    &mockPicker{err: picker.ErrTimeout},
			wantError: "timeout",
		},
		{
			name:      "dialog failure",
			picker:    &mockPicker{err: errors.New("exec: \"zenity\": executable file not found in $PATH")},
			wantError: "exec: \"zenity\": executable file not found in $PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newTestHost(&mockSaver{}, tt.picker)

			raw := host.handleRequest(context.Background(), &Request{Action: "pick_folder"})

			resp := decodeResponse(t, raw)
			if resp.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if resp.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", resp.Error, tt.wantError)
			}
			if resp.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", resp.Path, tt.wantPath)
			}
			if resp.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", resp.Name, tt.wantName)
			}
			if !tt.picker.called {
				t.Error("picker was never invoked")
			}
		})
	}
}

// TestHandleRequestWriteFile verifies write_file outcome mapping
func TestHandleRequestWriteFile(t *testing.T) {
	tests := []struct {
		name        string
		request     Request
		saver       *mockSaver
		wantSuccess bool
		wantError   string
		wantPath    string
	}{
		{
			name:        "write succeeds",
			request:     Request{Action: "write_file", Path: "~/notes/clip.md", Content: "# 收藏\n"},
			saver:       &mockSaver{written: "/home/li/notes/clip.md"},
			wantSuccess: true,
			wantPath:    "/home/li/notes/clip.md",
		},
		{
			name:        "write lands on renamed duplicate",
			request:     Request{Action: "write_file", Path: "~/notes/clip.md", Content: "again"},
			saver:       &mockSaver{written: "/home/li/notes/clip (1).md"},
			wantSuccess: true,
			wantPath:    "/home/li/notes/clip (1).md",
		},
		{
			name:      "missing path",
			request:   Request{Action: "write_file", Content: "orphaned"},
			saver:     &mockSaver{},
			wantError: "missing path",
		},
		{
			name:      "saver rejects path",
			request:   Request{Action: "write_file", Path: "../../etc/passwd", Content: "x"},
			saver:     &mockSaver{err: errors.New("path contains ..")},
			wantError: "path contains ..",
		},
		{
			name:      "saver fails",
			request:   Request{Action: "write_file", Path: "~/notes/clip.md", Content: "x"},
			saver:     &mockSaver{err: errors.New("insufficient disk space: required 1 bytes, available 0 bytes")},
			wantError: "insufficient disk space: required 1 bytes, available 0 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newTestHost(tt.saver, &mockPicker{})

			raw := host.handleRequest(context.Background(), &tt.request)

			resp := decodeResponse(t, raw)
			if resp.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if resp.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", resp.Error, tt.wantError)
			}
			if resp.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", resp.Path, tt.wantPath)
			}
		})
	}
}

// TestHandleRequestWriteFilePassesContentThrough verifies the saver
// receives the path and content exactly as sent, byte for byte
func TestHandleRequestWriteFilePassesContentThrough(t *testing.T) {
	saver := &mockSaver{}
	host := newTestHost(saver, &mockPicker{})
	content := "# 深度学习笔记\n\nsource: https://example.com/article?a=1&b=2\n\némojis: 🎉📚\n"

	host.handleRequest(context.Background(), &Request{
		Action:  "write_file",
		Path:    "~/收藏/notes.md",
		Content: content,
	})

	if saver.gotPath != "~/收藏/notes.md" {
		t.Errorf("saver path = %q, want %q", saver.gotPath, "~/收藏/notes.md")
	}
	if saver.gotContent != content {
		t.Errorf("saver content = %q, want %q", saver.gotContent, content)
	}
}

// TestHandleRequestMissingPathSkipsSaver verifies path validation runs
// before the saver is consulted
func TestHandleRequestMissingPathSkipsSaver(t *testing.T) {
	saver := &mockSaver{}
	host := newTestHost(saver, &mockPicker{})

	host.handleRequest(context.Background(), &Request{Action: "write_file", Path: ""})

	if saver.gotPath != "" || saver.gotContent != "" {
		t.Error("saver should not run without a path")
	}
}

// TestHandleRequestUnknownAction verifies unrecognized actions echo the
// action name back in the error
func TestHandleRequestUnknownAction(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		wantError string
	}{
		{
			name:      "unrecognized action",
			action:    "frobnicate",
			wantError: "unknown action: frobnicate",
		},
		{
			name:      "empty action",
			action:    "",
			wantError: "unknown action: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newTestHost(&mockSaver{}, &mockPicker{})

			raw := host.handleRequest(context.Background(), &Request{Action: tt.action})

			resp := decodeResponse(t, raw)
			if resp.Success {
				t.Error("Success = true, want false")
			}
			if resp.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

// TestHostRun verifies one full framed exchange over the pipes
func TestHostRun(t *testing.T) {
	var stdin, stdout bytes.Buffer
	request := []byte(`{"action":"write_file","path":"~/notes/today.md","content":"# 今天\n"}`)
	if err := WriteMessage(&stdin, request); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	saver := &mockSaver{written: "/home/li/notes/today.md"}
	host := newTestHost(saver, &mockPicker{})
	host.stdin = &stdin
	host.stdout = &stdout

	if err := host.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	raw, err := ReadMessage(&stdout)
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	resp := decodeResponse(t, raw)
	if !resp.Success {
		t.Errorf("Success = false, want true (error %q)", resp.Error)
	}
	if resp.Path != "/home/li/notes/today.md" {
		t.Errorf("Path = %q, want %q", resp.Path, "/home/li/notes/today.md")
	}
	if saver.gotContent != "# 今天\n" {
		t.Errorf("saver content = %q, want %q", saver.gotContent, "# 今天\n")
	}
	if stdout.Len() != 0 {
		t.Errorf("%d trailing bytes after the response frame", stdout.Len())
	}
}

// TestHostRunEndOfStream verifies a closed pipe is a clean shutdown:
// no error, no output bytes
func TestHostRunEndOfStream(t *testing.T) {
	inputs := [][]byte{
		{},
		{5, 0},
	}

	for _, input := range inputs {
		var stdout bytes.Buffer
		host := newTestHost(&mockSaver{}, &mockPicker{})
		host.stdin = bytes.NewReader(input)
		host.stdout = &stdout

		if err := host.Run(context.Background()); err != nil {
			t.Errorf("Run(% x) error = %v, want nil", input, err)
		}
		if stdout.Len() != 0 {
			t.Errorf("Run(% x) wrote %d bytes, want none", input, stdout.Len())
		}
	}
}

// TestHostRunOversizedFrame verifies an oversized length prefix ends
// the process without a reply rather than crashing it
func TestHostRunOversizedFrame(t *testing.T) {
	var stdout bytes.Buffer
	log := logger.NewMockLogger()
	host := newTestHost(&mockSaver{}, &mockPicker{})
	host.log = log
	// Length prefix claiming 1 GiB
	host.stdin = bytes.NewReader([]byte{0, 0, 0, 64})
	host.stdout = &stdout

	if err := host.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Run() wrote %d bytes, want none", stdout.Len())
	}
	if len(log.WarningCalls) == 0 {
		t.Error("dropping an oversized frame should leave a warning behind")
	}
}

// TestHostRunMalformedJSON verifies an unparseable frame is a fatal
// protocol error with no reply
func TestHostRunMalformedJSON(t *testing.T) {
	var stdin, stdout bytes.Buffer
	if err := WriteMessage(&stdin, []byte(`{"action":`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	host := newTestHost(&mockSaver{}, &mockPicker{})
	host.stdin = &stdin
	host.stdout = &stdout

	if err := host.Run(context.Background()); err == nil {
		t.Error("Run() should fail on malformed JSON")
	}
	if stdout.Len() != 0 {
		t.Errorf("Run() wrote %d bytes, want none", stdout.Len())
	}
}

// TestHostRunTruncatedBody verifies a frame shorter than its prefix is
// a fatal protocol error, whether the body arrives partially or not at
// all. Only a stream that ends inside the prefix itself reads as no
// request sent.
func TestHostRunTruncatedBody(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "partial body",
			input: append([]byte{10, 0, 0, 0}, []byte("short")...),
		},
		{
			name:  "prefix only",
			input: []byte{10, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			host := newTestHost(&mockSaver{}, &mockPicker{})
			host.stdin = bytes.NewReader(tt.input)
			host.stdout = &stdout

			if err := host.Run(context.Background()); err == nil {
				t.Error("Run() should fail on a truncated body")
			}
			if stdout.Len() != 0 {
				t.Errorf("Run() wrote %d bytes, want none", stdout.Len())
			}
		})
	}
}

// TestHostRunEmptyObject verifies a bare {} request draws the
// unknown-action reply instead of being dropped
func TestHostRunEmptyObject(t *testing.T) {
	var stdin, stdout bytes.Buffer
	if err := WriteMessage(&stdin, []byte(`{}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	host := newTestHost(&mockSaver{}, &mockPicker{})
	host.stdin = &stdin
	host.stdout = &stdout

	if err := host.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	raw, err := ReadMessage(&stdout)
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	resp := decodeResponse(t, raw)
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Error != "unknown action: " {
		t.Errorf("Error = %q, want %q", resp.Error, "unknown action: ")
	}
}

// TestHostRunLogsAction verifies the handled action lands in the log
func TestHostRunLogsAction(t *testing.T) {
	var stdin, stdout bytes.Buffer
	if err := WriteMessage(&stdin, []byte(`{"action":"ping"}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	log := logger.NewMockLogger()
	host := newTestHost(&mockSaver{}, &mockPicker{})
	host.log = log
	host.stdin = &stdin
	host.stdout = &stdout

	if err := host.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(log.InfoCalls) == 0 {
		t.Error("handling a request should leave an info entry behind")
	}
}

// TestNewHost verifies host construction
func TestNewHost(t *testing.T) {
	saver := &mockSaver{}
	fp := &mockPicker{}
	host := NewHost(saver, fp, logger.NewNopLogger(), "1.2.0")

	if host == nil {
		t.Fatal("NewHost returned nil")
	}
	if host.version != "1.2.0" {
		t.Errorf("version = %q, want %q", host.version, "1.2.0")
	}
	if host.stdin == nil || host.stdout == nil {
		t.Error("NewHost should wire the standard pipes")
	}
}
