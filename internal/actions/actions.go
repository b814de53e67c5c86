// Package actions provides named prompt templates for common fraud-analysis
// requests, loadable from a YAML file alongside the built-in set.
package actions

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is a reusable prompt template. Placeholders use {name} syntax and
// are filled from caller-supplied arguments at render time.
type Action struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title,omitempty"`
	Message string `yaml:"message"`
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Placeholders returns the argument names the template expects, sorted.
func (a *Action) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(a.Message, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// Render fills the template's placeholders. Every placeholder must be
// supplied; unknown arguments are rejected to catch typos.
func (a *Action) Render(args map[string]string) (string, error) {
	expected := make(map[string]bool)
	for _, name := range a.Placeholders() {
		expected[name] = true
		if _, ok := args[name]; !ok {
			return "", fmt.Errorf("action %s: missing argument %q", a.Name, name)
		}
	}
	for name := range args {
		if !expected[name] {
			return "", fmt.Errorf("action %s: unknown argument %q", a.Name, name)
		}
	}

	return placeholderPattern.ReplaceAllStringFunc(a.Message, func(m string) string {
		key := strings.Trim(m, "{}")
		return args[key]
	}), nil
}

type actionsFile struct {
	Actions []Action `yaml:"actions"`
}

// Defaults returns the built-in prompt set, mirroring the assistant's
// standard analysis workflows.
func Defaults() []Action {
	return []Action{
		{
			Name:    "create-report",
			Title:   "Create Report",
			Message: "Create a data quality insight report using this S3 URI {s3_uri} for data and S3 Flow URI {flow_uri} for the flow. This process can take some time.",
		},
		{
			Name:    "analyze-report",
			Title:   "Analyze Report",
			Message: "Analyze the processor report from S3 URI {report_uri}. Summarize the report and describe key details.",
		},
		{
			Name:    "transform-data",
			Title:   "Transform Data",
			Message: "Transform the data from input S3 URI {input_uri} and save the results to the output S3 uri {output_uri}.",
		},
	}
}

// Load returns the defaults merged with any user-defined actions from path.
// User actions with the same name replace the built-ins. An empty path
// returns just the defaults.
func Load(path string) ([]Action, error) {
	merged := Defaults()
	if path == "" {
		return merged, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return merged, nil
		}
		return nil, fmt.Errorf("failed to read actions file: %w", err)
	}

	var file actionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse actions file: %w", err)
	}

	for _, a := range file.Actions {
		if a.Name == "" || a.Message == "" {
			return nil, fmt.Errorf("actions file %s: every action needs a name and a message", path)
		}
		if i := indexOf(merged, a.Name); i >= 0 {
			merged[i] = a
		} else {
			merged = append(merged, a)
		}
	}
	return merged, nil
}

// Find returns the named action.
func Find(list []Action, name string) (*Action, bool) {
	if i := indexOf(list, name); i >= 0 {
		return &list[i], true
	}
	return nil, false
}

func indexOf(list []Action, name string) int {
	for i := range list {
		if list[i].Name == name {
			return i
		}
	}
	return -1
}
