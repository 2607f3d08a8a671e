package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Sessions(ctx context.Context) error
	Revoke(ctx context.Context, args []string) error
	ForgetDevice(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the CrewDesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("crewdesk (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, sessions, revoke <id>, logout, logout-all, forget-device, exit")
			} else {
				printlnFn("Available commands: login, register, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "whoami", "status":
			_ = a.WhoAmI(ctx)

		case "sessions":
			_ = a.Sessions(ctx)

		case "revoke":
			_ = a.Revoke(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "logout-all":
			_ = a.LogoutAll(ctx)

		case "forget-device":
			_ = a.ForgetDevice(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
