package connector

import (
	"os"
	"path/filepath"
	"strings"

	"connecthub/pkg/logging"
)

// docFilenames are the documentation files probed inside a connector package
// directory, in order. The first one that exists wins.
var docFilenames = []string{"docs.md", "DOCS.md", "README.md"}

// EnvVar describes one environment variable a connector's documentation
// declares. Set is computed live against the process environment at query
// time and is left false by the doc reader itself.
type EnvVar struct {
	Variable    string `json:"variable"`
	Description string `json:"description"`
	Set         bool   `json:"set"`
}

// Doc holds the sections extracted from a connector's documentation file.
// A missing file or missing section yields the zero value, never an error.
type Doc struct {
	Overview    string   `json:"overview,omitempty"`
	Auth        string   `json:"auth,omitempty"`
	EnvVars     []EnvVar `json:"envVars,omitempty"`
	CLICommands string   `json:"cliCommands,omitempty"`
	DataStorage string   `json:"dataStorage,omitempty"`
}

// DocReader loads connector documentation from package directories under a
// single root directory.
type DocReader struct {
	root string
}

// NewDocReader creates a reader over the given connector root directory.
func NewDocReader(root string) *DocReader {
	return &DocReader{root: root}
}

// Read loads and parses the documentation for the named connector. Connectors
// without documentation produce an empty Doc.
func (r *DocReader) Read(name string) Doc {
	if !ValidName(name) {
		return Doc{}
	}

	for _, filename := range docFilenames {
		path := filepath.Join(r.root, name, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		logging.Debug("Docs", "Parsed %s for connector %s", filename, name)
		return parseDoc(string(data))
	}

	return Doc{}
}

// parseDoc extracts the known sections from markdown documentation. Parsing
// is section-oriented: a heading line selects the section, the following
// block (up to the next heading) is its content.
func parseDoc(text string) Doc {
	var doc Doc

	sections := splitSections(text)
	for _, sec := range sections {
		heading := strings.ToLower(sec.heading)
		switch {
		case strings.Contains(heading, "authentication"):
			doc.Auth = firstParagraph(sec.body)
		case strings.Contains(heading, "environment variables"):
			doc.EnvVars = parseEnvVarTable(sec.body)
		case strings.Contains(heading, "cli commands"):
			doc.CLICommands = strings.TrimSpace(sec.body)
		case strings.Contains(heading, "data storage"):
			doc.DataStorage = strings.TrimSpace(sec.body)
		default:
			// The first unrecognized section, usually the title block,
			// doubles as the connector overview.
			if doc.Overview == "" {
				doc.Overview = firstParagraph(sec.body)
			}
		}
	}

	return doc
}

type section struct {
	heading string
	body    string
}

// splitSections breaks markdown into heading/body pairs. Any line starting
// with '#' is treated as a heading regardless of level.
func splitSections(text string) []section {
	var sections []section
	var current *section
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.body = body.String()
			sections = append(sections, *current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			flush()
			current = &section{heading: strings.TrimLeft(strings.TrimSpace(line), "# ")}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return sections
}

// firstParagraph returns the first non-empty paragraph of a section body.
func firstParagraph(body string) string {
	var lines []string
	started := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if started {
				break
			}
			continue
		}
		started = true
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, " ")
}

// parseEnvVarTable parses a two-column markdown table (variable | description)
// into EnvVar entries. Rows that don't look like table rows are skipped.
func parseEnvVarTable(body string) []EnvVar {
	var vars []EnvVar

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}

		cells := splitTableRow(trimmed)
		if len(cells) < 2 {
			continue
		}

		name := strings.Trim(cells[0], "` ")
		if name == "" || isTableSeparator(name) || strings.EqualFold(name, "variable") {
			continue
		}

		vars = append(vars, EnvVar{
			Variable:    name,
			Description: strings.TrimSpace(cells[1]),
		})
	}

	return vars
}

func splitTableRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isTableSeparator(cell string) bool {
	return strings.Trim(cell, ":- ") == ""
}
