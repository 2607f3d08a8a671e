package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Sessions lists the active device sessions for the current user, marking
// the one belonging to this device.
func (a *App) Sessions(ctx context.Context) error {
	sessions, err := a.manager.Sessions(ctx)
	if err != nil {
		fmt.Printf("Failed to list sessions: %s\n", err.Error())
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No active sessions.")
		return nil
	}

	for _, s := range sessions {
		marker := " "
		if s.IsCurrent {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s (%s) last used %s, expires %s\n",
			marker, s.ID, s.DeviceName, s.DeviceType, s.LastUsedAt, s.ExpiresAt)
	}
	return nil
}

// Revoke revokes one device session by id, prompting when no id was given.
func (a *App) Revoke(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = getSimpleText(a.reader, "Enter session id", os.Stdout); err != nil {
			return err
		}
	}

	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Println("Session id must be a number.")
		return nil
	}

	if err := a.manager.RevokeSession(ctx, id); err != nil {
		fmt.Printf("Failed to revoke session: %s\n", err.Error())
		return err
	}

	fmt.Println("Session revoked.")
	return nil
}

// LogoutAll revokes every session for the user, including this one.
func (a *App) LogoutAll(ctx context.Context) error {
	n, err := a.manager.LogoutAll(ctx)
	if err != nil {
		fmt.Printf("Failed to log out everywhere: %s\n", err.Error())
		return err
	}

	fmt.Printf("Logged out from %d session(s).\n", n)
	return nil
}

// ForgetDevice regenerates the device identifier; the server will treat the
// next login as coming from a new device.
func (a *App) ForgetDevice(ctx context.Context) error {
	id, err := a.manager.ForgetDevice(ctx)
	if err != nil {
		fmt.Printf("Failed to reset device identity: %s\n", err.Error())
		return err
	}

	fmt.Printf("Device identity reset (%s...).\n", id[:8])
	return nil
}
