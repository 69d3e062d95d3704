package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup = "bash setup"
	bashRun   = "bash run"
	bashCheck = "bash check"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) error = %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	got, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	for _, title := range []string{"# Ledger", "# Market", "# Configuration", "# Reports"} {
		if !strings.Contains(got, title) {
			t.Errorf("GetTopics(*) does not contain %q", title)
		}
	}
	if strings.Contains(got, "# cfo user manual") {
		t.Errorf("GetTopics(*) contains the index")
	}

	if _, err := GetTopics("ledger", "unknown"); err == nil {
		t.Errorf("GetTopics(unknown) error = nil, want an error")
	}
}

func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the cfo command")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}

	cfo := buildCfo(t, t.TempDir())
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			runBlocks(t, cfo, file)
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildCfo builds the cfo command and returns the path to the executable.
func buildCfo(t *testing.T, tmp string) string {
	t.Helper()
	output := filepath.Join(tmp, "cfo")
	buildCmd := exec.Command("go", "build", "-o", output, "../cfo/")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build cfo command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown returns the testable blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashSetup, bashRun, bashCheck:
		default:
			return ast.WalkContinue, nil
		}

		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: body.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// blockRunner executes the blocks of a file, a setup block starts a new folder.
type blockRunner struct {
	env       []string
	tmpFolder string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if err == nil {
		return
	}
	switch block.Type {
	case bashSetup, bashRun:
		t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
	default:
		t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
	}
}

// runBlocks executes the scenarios of a markdown file with cfo in the PATH.
func runBlocks(t *testing.T, cfo, file string) {
	t.Helper()
	blocks := parseMarkdown(t, file)
	if len(blocks) == 0 {
		return
	}
	path := fmt.Sprintf("PATH=%s%c%s", filepath.Dir(cfo), os.PathListSeparator, os.Getenv("PATH"))
	r := blockRunner{
		env:       append(os.Environ(), path),
		tmpFolder: t.TempDir(),
	}
	for _, block := range blocks {
		r.runBlock(t, block)
	}
}
