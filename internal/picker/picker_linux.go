//go:build linux

package picker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	godbus "github.com/godbus/dbus/v5"
)

const (
	portalBusName  = "org.freedesktop.portal.Desktop"
	portalObjPath  = "/org/freedesktop/portal/desktop"
	fileChooserIfc = "org.freedesktop.portal.FileChooser"
	requestIfc     = "org.freedesktop.portal.Request"
)

// pickFolder asks the XDG desktop portal for a directory. Machines without
// a portal service (bare window managers, older distros) fall back to
// zenity.
func pickFolder(ctx context.Context, prompt string) (string, error) {
	path, err := pickViaPortal(ctx, prompt)
	if err == nil || errors.Is(err, ErrCancelled) || ctx.Err() != nil {
		return path, err
	}
	return pickViaZenity(ctx, prompt)
}

// pickViaPortal drives org.freedesktop.portal.FileChooser.OpenFile in
// directory mode. The portal answers asynchronously with a Response signal
// on a request object whose path is derived from our connection name and a
// token we choose, so the signal match is registered before the call to
// avoid losing an early reply.
func pickViaPortal(ctx context.Context, prompt string) (string, error) {
	conn, err := godbus.ConnectSessionBus()
	if err != nil {
		return "", fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	token := fmt.Sprintf("btlhost_%d", os.Getpid())
	sender := strings.ReplaceAll(strings.TrimPrefix(conn.Names()[0], ":"), ".", "_")
	expected := godbus.ObjectPath(portalObjPath + "/request/" + sender + "/" + token)

	signals := make(chan *godbus.Signal, 20)
	conn.Signal(signals)
	if err := conn.AddMatchSignal(
		godbus.WithMatchInterface(requestIfc),
		godbus.WithMatchMember("Response"),
	); err != nil {
		return "", fmt.Errorf("add match signal: %w", err)
	}

	options := map[string]godbus.Variant{
		"handle_token": godbus.MakeVariant(token),
		"directory":    godbus.MakeVariant(true),
		"modal":        godbus.MakeVariant(true),
	}
	obj := conn.Object(portalBusName, godbus.ObjectPath(portalObjPath))
	var handle godbus.ObjectPath
	call := obj.CallWithContext(ctx, fileChooserIfc+".OpenFile", 0, "", prompt, options)
	if call.Err != nil {
		return "", fmt.Errorf("portal OpenFile: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return "", fmt.Errorf("portal handle: %w", err)
	}

	for {
		select {
		case sig := <-signals:
			if sig == nil {
				return "", fmt.Errorf("session bus closed")
			}
			// Older portals may ignore handle_token and hand back their
			// own request path.
			if sig.Path != expected && sig.Path != handle {
				continue
			}
			return parsePortalResponse(sig)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// parsePortalResponse unpacks the (uint32 response, a{sv} results) body of
// a Request.Response signal. Code 0 is success, 1 is user cancellation,
// anything else means the portal gave up.
func parsePortalResponse(sig *godbus.Signal) (string, error) {
	if len(sig.Body) < 2 {
		return "", fmt.Errorf("malformed portal response")
	}
	code, ok := sig.Body[0].(uint32)
	if !ok {
		return "", fmt.Errorf("malformed portal response code")
	}
	switch code {
	case 0:
	case 1:
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("portal response code %d", code)
	}
	results, ok := sig.Body[1].(map[string]godbus.Variant)
	if !ok {
		return "", fmt.Errorf("malformed portal results")
	}
	uris, ok := results["uris"].Value().([]string)
	if !ok || len(uris) == 0 {
		return "", fmt.Errorf("portal returned no selection")
	}
	u, err := url.Parse(uris[0])
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("unexpected portal uri %q", uris[0])
	}
	return u.Path, nil
}

// pickViaZenity shells out to the zenity directory chooser.
func pickViaZenity(ctx context.Context, prompt string) (string, error) {
	out, err := exec.CommandContext(ctx,
		"zenity", "--file-selection", "--directory", "--title", prompt).Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// zenity exits 1 when the user hits Cancel.
			return "", ErrCancelled
		}
		return "", fmt.Errorf("zenity: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
