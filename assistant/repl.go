package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "assist> "

// Run starts an interactive chat on r and w. The prompts are sent first as
// if the user typed them. Typing "bye" or closing r ends the chat.
//
// A failed answer is reported on w and the chat goes on.
func Run(ctx context.Context, w io.Writer, r io.Reader, s *Session, c Completer, prompts ...string) error {
	in := bufio.NewReader(r)
	fmt.Fprintln(w, "Welcome to pfa assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(w, input)
		} else {
			var err error
			input, err = in.ReadString('\n')
			if err == io.EOF && strings.TrimSpace(input) == "" {
				fmt.Fprintln(w)
				return nil // Ctrl+D
			}
			if err != nil && err != io.EOF {
				return err
			}
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "bye":
			return nil
		}

		reply, err := s.Ask(ctx, c, input)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(w, "An error occurred: %v\n", err)
			continue
		}
		fmt.Fprintln(w, reply)
	}
}
