package docs

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// commands known to pfa, used to check the documented command lines.
var commands = []string{"analyze", "signals", "assist", "housing", "topic"}

func TestTopics(t *testing.T) {
	// This test ensures that the documentation is in sync with the code.
	// It checks two things:
	// 1. Every topic listed in docs/readme.md can be successfully loaded by the pfa topic <topic_name> command.
	// 2. Every .md file in the docs directory (excluding readme.md itself) is present in the list of topics extracted from docs/readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		matches := topicRegex.FindStringSubmatch(scanner.Text())
		if len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics(All)
	if err != nil {
		t.Fatalf("GetTopics(*) unexpected error: %v", err)
	}
	for _, title := range []string{"# Analyze a portfolio", "# Metrics", "# Signals"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) has no %q", title)
		}
	}
	if strings.Contains(all, "pfa topic <topic>") {
		t.Error("GetTopics(*) includes the readme")
	}
	if _, err := GetTopic("nope"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("GetTopic(nope) = %v want ErrUnknownTopic", err)
	}
	if _, err := GetTopics("metrics", "nope"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("GetTopics(metrics, nope) = %v want ErrUnknownTopic", err)
	}
}

func TestCommandLines(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		for _, line := range commandLines(t, file) {
			fields := strings.Fields(line)
			if len(fields) < 2 || fields[0] != "pfa" {
				t.Errorf("%s: %q is not a pfa command", file, line)
				continue
			}
			if !slices.Contains(commands, fields[1]) {
				t.Errorf("%s: %q uses unknown command %q", file, line, fields[1])
			}
		}
	}
}

// commandLines returns the lines of the bash code blocks of a markdown file.
func commandLines(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var lines []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || string(fcb.Language(content)) != "bash" {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			if s := strings.TrimSpace(string(line.Value(content))); s != "" {
				lines = append(lines, s)
			}
		}
		return ast.WalkContinue, nil
	})
	return lines
}
