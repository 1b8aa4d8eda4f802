package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fwojciec/findmystore"
)

// Run executes the chat command: one message per input line until EOF,
// "exit" or "quit". Failed turns are reported and the session continues.
func (c *ChatCmd) Run(deps *Dependencies) error {
	if deps.Chatter == nil {
		return errNoGemini
	}

	session := c.Session
	fmt.Fprintln(deps.Stdout, "Ask about stores, prices, shopping lists or alerts. Type 'exit' to quit.")
	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprint(deps.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(deps.Stdout)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, err := deps.Chatter.Chat(deps.Ctx, session, line)
		if err != nil {
			if deps.Ctx.Err() != nil {
				return deps.Ctx.Err()
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", findmystore.ErrorMessage(err))
			continue
		}
		session = reply.SessionID
		fmt.Fprintln(deps.Stdout, reply.Text)
	}
}
