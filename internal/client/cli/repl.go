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
	Help()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	Logout(ctx context.Context) error
	Open(ctx context.Context, page string) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// runREPL starts a simple read–eval–print loop for the petcare CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by command handlers are
// handed to notify, which shows them to the user; the loop keeps going.
// The loop exits on EOF, when ctx ends or when the user types "exit" or
// "quit".
//
//	help                 show available commands
//	register | login     create an account or authenticate
//	guest                continue without an account
//	logout               end the session
//	open <page>          open index, dashboard, vaccine, care, diet, expenses or photos
//	add                  add a record on the open page
//	(l)ist               list the records of the open page
//	delete <id>          delete a record of the open page
//	exit | quit          leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, notify func(error)) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pc %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			a.Help()

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "guest":
			err = a.Guest(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <page>")
				break
			}
			err = a.Open(ctx, args[0])

		case "add":
			err = a.Add(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				break
			}
			err = a.Delete(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			notify(err)
		}
		if readErr != nil {
			return
		}
	}
}
