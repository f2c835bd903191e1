// Package docs holds the pfa documentation topics, one markdown file per topic.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the topic listing the others, it is not part of All.
const Index = "readme"

// All matches every topic in GetTopics.
const All = "*"

// ErrUnknownTopic is returned for a topic without a file.
var ErrUnknownTopic = errors.New("unknown topic")

// GetTopic returns the markdown of a topic.
func GetTopic(topic string) (string, error) {
	b, err := files.ReadFile(topic + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w %q, see 'pfa topic'", ErrUnknownTopic, topic)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetTopics returns the markdown of topics, one after the other. All expands
// to every topic.
func GetTopics(topics ...string) (string, error) {
	var names []string
	for _, t := range topics {
		if t != All {
			names = append(names, t)
			continue
		}
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		names = append(names, all...)
	}

	var b strings.Builder
	for _, t := range names {
		md, err := GetTopic(t)
		if err != nil {
			return "", err
		}
		b.WriteString(md)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics returns the sorted topic names, without the index.
func GetAllTopics() ([]string, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := strings.TrimSuffix(path.Base(m), ".md"); t != Index {
			topics = append(topics, t)
		}
	}
	slices.Sort(topics)
	return topics, nil
}
