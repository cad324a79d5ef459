package options

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentDefinition configures a subagent: a specialized agent with its
// own prompt and a restricted tool set.
type AgentDefinition struct {
	Name        string
	Description string
	// Prompt is the subagent's system prompt.
	Prompt string
	// Tools restricts which tools the subagent can use. Empty inherits
	// the parent set.
	Tools []Tool
	// Model optionally overrides the model for this subagent.
	Model string
}

// agentFrontmatter is the YAML header of an agent .md file. Tools is a
// comma-separated list.
type agentFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tools       string `yaml:"tools"`
	Model       string `yaml:"model"`
}

// ParseAgentFile reads one agent definition from an .md file with YAML
// frontmatter between --- delimiters; the markdown body becomes the
// subagent prompt. A missing name falls back to the file stem.
func ParseAgentFile(path string) (AgentDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AgentDefinition{}, fmt.Errorf("read agent file: %w", err)
	}

	def, err := parseAgentContent(data)
	if err != nil {
		return AgentDefinition{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return def, nil
}

func parseAgentContent(data []byte) (AgentDefinition, error) {
	if !bytes.HasPrefix(data, []byte("---")) {
		return AgentDefinition{}, errors.New("agent file must start with YAML frontmatter (---)")
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var header, body []string
	inHeader := false
	headerClosed := false

	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		switch {
		case lineNum == 1 && line == "---":
			inHeader = true
		case inHeader && line == "---":
			inHeader = false
			headerClosed = true
		case inHeader:
			header = append(header, line)
		case headerClosed:
			body = append(body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return AgentDefinition{}, fmt.Errorf("scan content: %w", err)
	}
	if !headerClosed {
		return AgentDefinition{}, errors.New("frontmatter not closed (missing ---)")
	}

	var fm agentFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(header, "\n")), &fm); err != nil {
		return AgentDefinition{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	return AgentDefinition{
		Name:        fm.Name,
		Description: fm.Description,
		Prompt:      strings.TrimSpace(strings.Join(body, "\n")),
		Tools:       splitTools(fm.Tools),
		Model:       fm.Model,
	}, nil
}

func splitTools(list string) []Tool {
	if list == "" {
		return nil
	}

	parts := strings.Split(list, ",")
	tools := make([]Tool, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tools = append(tools, Tool(t))
		}
	}

	return tools
}

// LoadAgentDir parses every .md file directly under dir and returns the
// definitions keyed by name. A missing directory yields an empty map.
func LoadAgentDir(dir string) (map[string]AgentDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]AgentDefinition{}, nil
		}

		return nil, fmt.Errorf("read agent directory: %w", err)
	}

	defs := make(map[string]AgentDefinition)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		def, err := ParseAgentFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs[def.Name] = def
	}

	return defs, nil
}
