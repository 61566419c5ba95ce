package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MermaidOptions configures Mermaid diagram generation.
type MermaidOptions struct {
	MaxNodes  int                 // collapse to packages above this many classes (default 60)
	Direction string              // "TD" or "LR"
	Collapse  bool                // allow the package view
	Title     string
	Label     func(string) string // node label; nil uses the internal name
	Platform  func(string) bool   // platform classes get the "platform" style
}

// DefaultMermaidOptions returns sensible defaults for hierarchy diagrams.
func DefaultMermaidOptions() *MermaidOptions {
	return &MermaidOptions{
		MaxNodes:  60,
		Direction: "TD",
		Collapse:  true,
	}
}

// platformStyle greys out runtime classes such as java/lang/Object.
const platformStyle = "    classDef platform fill:#eeeeee,stroke:#999999,color:#555555\n"

// GenerateMermaid renders g as a Mermaid flowchart with an arrow from each
// superclass to its subclasses.
func GenerateMermaid(g *Graph, opts *MermaidOptions) string {
	if opts == nil {
		opts = DefaultMermaidOptions()
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 60
	}
	if opts.Direction != "TD" && opts.Direction != "LR" {
		opts.Direction = "TD"
	}
	label := opts.Label
	if label == nil {
		label = func(cls string) string { return cls }
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "flowchart %s\n", opts.Direction)
	if opts.Title != "" {
		fmt.Fprintf(&sb, "    subgraph title[\"%s\"]\n    end\n", escapeMermaidString(opts.Title))
	}

	if opts.Collapse && g.NodeCount() > opts.MaxNodes {
		generateCollapsedMermaid(g, &sb)
		return sb.String()
	}

	nodes := g.Nodes()
	var platform []string
	for _, id := range nodes {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(id), escapeMermaidString(label(id)))
		if opts.Platform != nil && opts.Platform(id) {
			platform = append(platform, sanitizeMermaidID(id))
		}
	}
	for _, id := range nodes {
		for _, superclass := range g.Edges[id] {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(superclass), sanitizeMermaidID(id))
		}
	}
	if len(platform) > 0 {
		sb.WriteString(platformStyle)
		fmt.Fprintf(&sb, "    class %s platform\n", strings.Join(platform, ","))
	}

	return sb.String()
}

// generateCollapsedMermaid generates a package-level view when there are too many nodes.
func generateCollapsedMermaid(g *Graph, sb *strings.Builder) {
	packages := make(map[string]int)
	for node := range g.Edges {
		packages[packageOf(node)]++
	}

	sorted := make([]string, 0, len(packages))
	for pkg := range packages {
		sorted = append(sorted, pkg)
	}
	sort.Strings(sorted)

	for _, pkg := range sorted {
		label := fmt.Sprintf("%s (%d)", pkg, packages[pkg])
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", sanitizeMermaidID(pkg), escapeMermaidString(label)))
	}

	// Package-level edges, deduplicated
	var lines []string
	seen := make(map[string]bool)
	for node, targets := range g.Edges {
		for _, superclass := range targets {
			from, to := packageOf(superclass), packageOf(node)
			if from == to {
				continue
			}
			line := fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(from), sanitizeMermaidID(to))
			if !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		sb.WriteString(line)
	}
}

// packageOf returns the package part of an internal class name, or
// "(default)" for classes in the unnamed package.
func packageOf(cls string) string {
	if i := strings.LastIndex(cls, "/"); i > 0 {
		return cls[:i]
	}
	return "(default)"
}

// sanitizeMermaidID converts an ID to be valid in Mermaid.
// Mermaid IDs can contain alphanumeric chars and underscores.
var mermaidIDRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func sanitizeMermaidID(id string) string {
	// Replace invalid characters with underscores
	sanitized := mermaidIDRegex.ReplaceAllString(id, "_")

	// Ensure it starts with a letter or underscore (not a digit)
	if len(sanitized) > 0 && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	// Handle empty strings
	if sanitized == "" {
		sanitized = "_empty"
	}

	return sanitized
}

// escapeMermaidString escapes special characters in Mermaid string content.
func escapeMermaidString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
