// Package nativehost implements the native messaging host side of the
// BookmarkToLearn browser extension. Messages travel over stdin/stdout in
// the Chrome/Firefox native messaging format: a 4-byte little-endian length
// prefix followed by a UTF-8 JSON payload.
package nativehost

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize limits native messaging payloads in both directions.
// Browsers refuse host-to-browser messages above 1 MiB, and anything the
// extension sends is far smaller, so one shared cap keeps framing simple.
const MaxMessageSize = 1 << 20

// ErrMessageTooLarge reports a length prefix above MaxMessageSize. The
// remainder of the stream cannot be framed once this happens.
var ErrMessageTooLarge = errors.New("message too large")

// Request is a single command from the extension. Every message carries an
// action; path and content only accompany write_file.
type Request struct {
	Action  string `json:"action"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
}

// Response is the reply sent back to the extension. Success is always
// present; version answers ping, path and name answer pick_folder, path
// alone answers write_file, and error carries every failure including the
// fixed "cancelled" and "timeout" outcomes.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ReadMessage reads one native messaging frame from the reader.
// A stream that ends before a complete 4-byte prefix reports io.EOF; a
// prefix above MaxMessageSize reports ErrMessageTooLarge. A stream that
// ends mid-payload is corrupt and reports an unexpected EOF.
func ReadMessage(r io.Reader) ([]byte, error) {
	return ReadMessageLimit(r, MaxMessageSize)
}

// ReadMessageLimit is ReadMessage with a caller-chosen payload cap.
func ReadMessageLimit(r io.Reader, max int) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	// Compare in 64-bit space; int(length) would go negative for prefixes
	// past 2^31 on 32-bit platforms and slip under the cap.
	if int64(length) > int64(max) {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, length, max)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		// ReadFull reports a body that never arrived as plain EOF; a frame
		// that declared one is corrupt either way.
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("short message body: %w", err)
	}
	return buf, nil
}

// WriteMessage writes one native messaging frame to the writer.
func WriteMessage(w io.Writer, msg []byte) error {
	if len(msg) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, len(msg), MaxMessageSize)
	}
	length := uint32(len(msg))
	if err := binary.Write(w, binary.LittleEndian, length); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ParseRequest parses a JSON byte slice into a Request struct.
func ParseRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MakePingResponse creates the JSON-encoded reply to a ping.
func MakePingResponse(version string) []byte {
	return marshalResponse(Response{Success: true, Version: version})
}

// MakeFolderResponse creates the JSON-encoded reply to a completed folder
// selection.
func MakeFolderResponse(path, name string) []byte {
	return marshalResponse(Response{Success: true, Path: path, Name: name})
}

// MakeWriteResponse creates the JSON-encoded reply to a completed write.
// path is the location actually written, which may carry a " (N)" suffix.
func MakeWriteResponse(path string) []byte {
	return marshalResponse(Response{Success: true, Path: path})
}

// MakeCancelledResponse creates the JSON-encoded reply for a dismissed
// folder dialog. The extension matches on the fixed "cancelled" string to
// keep the dismissal out of its error UI.
func MakeCancelledResponse() []byte {
	return marshalResponse(Response{Success: false, Error: "cancelled"})
}

// MakeTimeoutResponse creates the JSON-encoded reply for a folder dialog
// that outlived its deadline, reported as the fixed "timeout" string.
func MakeTimeoutResponse() []byte {
	return marshalResponse(Response{Success: false, Error: "timeout"})
}

// MakeErrorResponse creates a JSON-encoded failure reply carrying the
// error text the extension displays to the user.
func MakeErrorResponse(err error) []byte {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return marshalResponse(Response{Success: false, Error: msg})
}

func marshalResponse(resp Response) []byte {
	// Response contains only scalar fields, so Marshal cannot fail.
	b, _ := json.Marshal(resp)
	return b
}
