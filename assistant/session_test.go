package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// echo replies with the last message upper cased and records what it received.
type echo struct {
	got [][]Message
	err error
}

func (e *echo) Complete(ctx context.Context, messages []Message) (string, error) {
	e.got = append(e.got, messages)
	if e.err != nil {
		return "", e.err
	}
	return "  " + strings.ToUpper(messages[len(messages)-1].Content) + "\n", nil
}

func TestSessionAsk(t *testing.T) {
	s := NewSession("be nice")
	c := &echo{}
	for _, p := range []string{"hello", "how are you"} {
		if _, err := s.Ask(context.Background(), c, p); err != nil {
			t.Fatalf("Ask(%q) unexpected error: %v", p, err)
		}
	}

	want := []Message{
		{Role: User, Content: "hello"},
		{Role: Assistant, Content: "HELLO"},
		{Role: User, Content: "how are you"},
		{Role: Assistant, Content: "HOW ARE YOU"},
	}
	if diff := cmp.Diff(want, s.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}

	// the preamble is sent once, first, on every request
	for i, msgs := range c.got {
		if msgs[0] != (Message{Role: System, Content: "be nice"}) {
			t.Errorf("request %d starts with %v want the system preamble", i, msgs[0])
		}
		for _, m := range msgs[1:] {
			if m.Role == System {
				t.Errorf("request %d has a second system message", i)
			}
		}
	}
	if n := len(s.Messages()); n != 5 {
		t.Errorf("len(Messages()) = %d want 5", n)
	}
}

func TestSessionAskFailure(t *testing.T) {
	s := NewSession("be nice")
	boom := errors.New("boom")
	if _, err := s.Ask(context.Background(), &echo{err: boom}, "hello"); !errors.Is(err, boom) {
		t.Fatalf("Ask() error = %v want %v", err, boom)
	}
	if h := s.History(); len(h) != 0 {
		t.Errorf("History() after a failure = %v want empty", h)
	}
}

func TestSessionIsolation(t *testing.T) {
	a, b := NewSession("x"), NewSession("x")
	if a.ID == b.ID {
		t.Errorf("two sessions share the ID %v", a.ID)
	}
	if _, err := a.Ask(context.Background(), &echo{}, "hi"); err != nil {
		t.Fatal(err)
	}
	if len(b.History()) != 0 {
		t.Errorf("asking a session changed another one")
	}
}

func TestPreamble(t *testing.T) {
	if got := Preamble("Ada", ""); !strings.Contains(got, "Ada") {
		t.Errorf("Preamble() = %q want it to name the owner", got)
	}
	got := Preamble("Ada", "Ada writes Go.")
	if !strings.Contains(got, "Ada writes Go.") {
		t.Errorf("Preamble() = %q want it to include the knowledge", got)
	}
}

func TestRun(t *testing.T) {
	var out strings.Builder
	s := NewSession("x")
	in := strings.NewReader("second\n\nbye\nignored\n")
	if err := Run(context.Background(), &out, in, s, &echo{}, "first"); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"FIRST", "SECOND"} {
		if !strings.Contains(got, want) {
			t.Errorf("Run() output %q does not contain %q", got, want)
		}
	}
	if strings.Contains(got, "IGNORED") {
		t.Errorf("Run() kept going after bye: %q", got)
	}
}

func TestRunReportsErrors(t *testing.T) {
	var out strings.Builder
	in := strings.NewReader("hello")
	if err := Run(context.Background(), &out, in, NewSession("x"), &echo{err: errors.New("boom")}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "An error occurred") {
		t.Errorf("Run() output %q does not report the error", out.String())
	}
}
