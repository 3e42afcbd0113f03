package nativehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bookmarktolearn/btlhost/internal/picker"
	"github.com/bookmarktolearn/btlhost/pkg/logger"
)

// FolderPicker shows the native folder selection dialog. Satisfied by
// *picker.Dialog; tests substitute a mock.
type FolderPicker interface {
	Pick(ctx context.Context) (*picker.Selection, error)
}

// FileSaver persists note content under the user's home directory.
// Satisfied by *safewrite.Saver; tests substitute a mock.
type FileSaver interface {
	Save(path, content string) (string, error)
}

// Host services a single extension request over stdin/stdout.
type Host struct {
	saver   FileSaver
	picker  FolderPicker
	log     logger.Logger
	version string
	stdin   io.Reader
	stdout  io.Writer
}

// NewHost creates a native messaging host talking over os.Stdin and
// os.Stdout. version is what ping reports back to the extension.
func NewHost(saver FileSaver, picker FolderPicker, log logger.Logger, version string) *Host {
	return &Host{
		saver:   saver,
		picker:  picker,
		log:     log,
		version: version,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
}

// Run services one request: read a frame, dispatch it, write the reply.
// The browser spawns a fresh host process per exchange and closes the pipe
// when it has nothing to send, so a stream that ends before a complete
// length prefix is a normal shutdown, not an error. An oversized frame
// cannot be skipped over, so it also ends the process without a reply.
// A frame that ends mid-body or carries unparseable JSON is corrupt and
// comes back as an error so the browser logs the failed exchange.
func (h *Host) Run(ctx context.Context) error {
	data, err := ReadMessage(h.stdin)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, ErrMessageTooLarge) {
			h.log.Warning("dropping request: %v", err)
			return nil
		}
		return fmt.Errorf("read request: %w", err)
	}

	req, err := ParseRequest(data)
	if err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	h.log.Info("handling action %q", req.Action)
	resp := h.handleRequest(ctx, req)
	if err := WriteMessage(h.stdout, resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// handleRequest dispatches a request and returns the JSON response.
func (h *Host) handleRequest(ctx context.Context, req *Request) []byte {
	switch req.Action {
	case "ping":
		return MakePingResponse(h.version)

	case "pick_folder":
		sel, err := h.picker.Pick(ctx)
		switch {
		case err == nil:
			h.log.Info("folder selected: %s", sel.Path)
			return MakeFolderResponse(sel.Path, sel.Name)
		case errors.Is(err, picker.ErrCancelled):
			h.log.Info("folder dialog cancelled")
			return MakeCancelledResponse()
		case errors.Is(err, picker.ErrTimeout):
			h.log.Warning("folder dialog timed out")
			return MakeTimeoutResponse()
		default:
			h.log.Error("folder dialog failed: %v", err)
			return MakeErrorResponse(err)
		}

	case "write_file":
		if req.Path == "" {
			return MakeErrorResponse(errors.New("missing path"))
		}
		written, err := h.saver.Save(req.Path, req.Content)
		if err != nil {
			h.log.Error("write_file failed: %v", err)
			return MakeErrorResponse(err)
		}
		h.log.Info("wrote %d bytes to %s", len(req.Content), written)
		return MakeWriteResponse(written)

	default:
		return MakeErrorResponse(fmt.Errorf("unknown action: %s", req.Action))
	}
}
