package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context)
	Logout(ctx context.Context)
	Profile(ctx context.Context)
	Patients(ctx context.Context, search string)
	Users(ctx context.Context, search string)
	Menu(ctx context.Context)
	Ping(ctx context.Context)
}

// runREPL reads a command per line and dispatches to 'a' until EOF or
// "exit". Handlers report their own errors; the loop only routes.
//
// Commands when logged out: login, ping, exit.
// Commands when logged in: profile, patients [search], users [search],
// menu, logout, ping, exit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, out func(...any)) {
	for {
		out(fmt.Sprintf("sejour %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		search := ""
		if len(args) > 0 {
			search = args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				out("Available commands: profile, patients [search], users [search], menu, logout, ping, exit")
			} else {
				out("Available commands: login, ping, exit")
			}
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "profile":
			a.Profile(ctx)
		case "patients":
			a.Patients(ctx, search)
		case "users":
			a.Users(ctx, search)
		case "menu":
			a.Menu(ctx)
		case "ping":
			a.Ping(ctx)
		case "exit", "quit":
			out("Bye!")
			return
		default:
			out("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	s := a.userEmail
	if a.offline.Load() {
		if s != "" {
			s += " "
		}
		s += "hors ligne"
	}
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Bienvenue (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if !a.isLoggedIn() {
		a.Login(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, scanner, func(args ...any) {
		fmt.Fprintln(a.out, args...)
	})
}
