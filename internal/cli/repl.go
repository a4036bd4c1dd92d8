package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ListAssessments(ctx context.Context) error
	NewAssessment(ctx context.Context) error
	ShowAssessment(ctx context.Context, id string) error
	SignAssessment(ctx context.Context, id string) error
	ResolveAssessment(ctx context.Context, id string) error
	DeleteAssessment(ctx context.Context, id string) error
	ListMeetings(ctx context.Context) error
	NewMeeting(ctx context.Context) error
	ListUsers(ctx context.Context) error
	AddUser(ctx context.Context) error
	ListNotifications(ctx context.Context) error
	MarkNotificationsRead(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	SyncNow(ctx context.Context) error
	CreateWorkspace(ctx context.Context) error
	JoinWorkspace(ctx context.Context, id string) error
	ResetLocal(ctx context.Context) error
	Report(ctx context.Context) error
	ExportReport(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the safework CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - lmra | list    — list risk assessments
//	  - new            — create a risk assessment
//	  - show <id>      — show one assessment
//	  - sign <id>      — sign an assessment as attendee
//	  - resolve <id>   — resolve a NOK assessment
//	  - delete <id>    — delete an assessment
//	  - kickoff        — list kick-off meetings
//	  - newkickoff     — create a kick-off meeting
//	  - users          — list accounts
//	  - adduser        — create an account
//	  - notif          — list notifications
//	  - read           — mark notifications read
//	  - status         — show workspace and sync state
//	  - sync           — trigger a pull now
//	  - wsnew          — create a shared workspace
//	  - wsjoin <id>    — join an existing workspace
//	  - reset          — wipe local data and start over
//	  - report         — show the compliance summary
//	  - export         — export assessments to CSV
//	  - passwd         — change password
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("safework %s > ", statusFn()))
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

		arg := func() string {
			if len(args) == 0 {
				return ""
			}
			return args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: lmra, new, show <id>, sign <id>, resolve <id>, delete <id>, kickoff, newkickoff, users, adduser, notif, read, status, sync, wsnew, wsjoin <id>, reset, report, export, passwd, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "l", "lmra", "list":
			_ = a.ListAssessments(ctx)

		case "new":
			_ = a.NewAssessment(ctx)

		case "show":
			_ = a.ShowAssessment(ctx, arg())

		case "sign":
			_ = a.SignAssessment(ctx, arg())

		case "resolve":
			_ = a.ResolveAssessment(ctx, arg())

		case "delete":
			_ = a.DeleteAssessment(ctx, arg())

		case "kickoff":
			_ = a.ListMeetings(ctx)

		case "newkickoff":
			_ = a.NewMeeting(ctx)

		case "users":
			_ = a.ListUsers(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "notif":
			_ = a.ListNotifications(ctx)

		case "read":
			_ = a.MarkNotificationsRead(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "sync":
			_ = a.SyncNow(ctx)

		case "wsnew":
			_ = a.CreateWorkspace(ctx)

		case "wsjoin":
			_ = a.JoinWorkspace(ctx, arg())

		case "reset":
			_ = a.ResetLocal(ctx)

		case "report":
			_ = a.Report(ctx)

		case "export":
			_ = a.ExportReport(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// Root is the REPL entry point over stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("safework CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
