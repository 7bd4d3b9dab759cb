package render

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"join":           strings.Join,
		"yamlListInline": yamlListInline,
		"markdownList":   markdownList,
		"quoteBlock":     quoteBlock,
		"warning":        warningFunc,
	}
}

// yamlListInline transforme: {"a", "b"} -> ["a", "b"]
func yamlListInline(xs []string) string {
	if len(xs) == 0 {
		return "[]"
	}
	quoted := make([]string, 0, len(xs))
	for _, s := range xs {
		quoted = append(quoted, strconv.Quote(s))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// markdownList génère des lignes "- item" (avec saut final).
func markdownList(xs []string) string {
	var b strings.Builder
	for _, s := range xs {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// quoteBlock préfixe chaque ligne par "> ".
func quoteBlock(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = "> " + lines[i]
	}
	return strings.Join(lines, "\n")
}

// calloutHeader construit l'en-tête "> [!KIND] titre".
func calloutHeader(kind, title string) string {
	var clean []rune
	for _, r := range strings.ToUpper(strings.TrimSpace(kind)) {
		if unicode.IsLetter(r) || r == '-' || r == '_' {
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		clean = []rune("NOTE")
	}
	header := "> [!" + string(clean) + "]"
	if t := strings.TrimSpace(title); t != "" {
		header += " " + t
	}
	return header + "\n"
}

func prefixLines(content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return "> \n"
	}
	var b strings.Builder
	for _, l := range strings.Split(content, "\n") {
		b.WriteString("> ")
		b.WriteString(strings.TrimRight(l, " \t"))
		b.WriteString("\n")
	}
	return b.String()
}

// warningFunc : {{ warning .Text }} ou {{ warning "Titre" .Text }}.
func warningFunc(args ...any) string {
	var title, content string
	switch {
	case len(args) == 1:
		content = fmt.Sprint(args[0])
	case len(args) >= 2:
		title = fmt.Sprint(args[0])
		content = fmt.Sprint(args[1])
	}
	return calloutHeader("warning", title) + prefixLines(content)
}
