// Package langdetect guesses the language of a code block that was written
// without an info string, so the renderer can still emit a language class
// and pick a highlighter.
//
// Detection is conservative: a guess is only returned when a shebang, a
// modeline, a strong textual signature or a confident go-enry
// classification supports it.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// signature is a textual marker that identifies a language on its own.
type signature struct {
	lang string

	// prefix must start the trimmed content; any must all appear in it.
	prefix string
	all    []string
}

//nolint:gochecknoglobals // Read-only lookup table.
var signatures = []signature{
	{lang: "go", prefix: "package "},
	{lang: "html", prefix: "<!doctype html"},
	{lang: "html", prefix: "<html"},
	{lang: "xml", prefix: "<?xml "},
	{lang: "php", prefix: "<?php"},
	{lang: "dockerfile", prefix: "from ", all: []string{"\nrun "}},
	{lang: "python", all: []string{"def ", "):"}},
	{lang: "python", all: []string{"__name__"}},
	{lang: "rust", all: []string{"fn main()"}},
	{lang: "rust", all: []string{"println!("}},
	{lang: "sql", prefix: "select ", all: []string{" from "}},
	{lang: "sql", prefix: "create table "},
}

//nolint:gochecknoglobals // Read-only lookup table.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "C#", "SQL", "JSON", "YAML", "HTML", "CSS",
	"Makefile", "Dockerfile", "TOML", "Lua",
}

// fenceNames maps go-enry language names to fence identifiers where the
// lowercased name is not what authors write.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fenceNames = map[string]string{
	"Shell":      "bash",
	"C++":        "cpp",
	"C#":         "csharp",
	"Emacs Lisp": "elisp",
	"Vim Script": "vim",
}

// Detect returns the fence identifier for the language of content, such
// as "go" or "bash". ok is false when no confident guess can be made.
func Detect(content []byte) (string, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return FenceName(lang), true
	}
	if lang, safe := enry.GetLanguageByModeline(content); safe {
		return FenceName(lang), true
	}
	if lang := matchSignature(trimmed); lang != "" {
		return lang, true
	}
	if looksLikeJSON(trimmed) {
		return "json", true
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return FenceName(lang), true
	}
	return "", false
}

// FenceName converts a go-enry language name to the identifier used in
// code fences and by the highlighter.
func FenceName(lang string) string {
	if name, ok := fenceNames[lang]; ok {
		return name
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}

func matchSignature(trimmed []byte) string {
	lower := strings.ToLower(string(trimmed))
	for _, sig := range signatures {
		if sig.prefix != "" && !strings.HasPrefix(lower, sig.prefix) {
			continue
		}
		matched := true
		for _, marker := range sig.all {
			if !strings.Contains(lower, marker) {
				matched = false
				break
			}
		}
		if matched {
			return sig.lang
		}
	}
	return ""
}

func looksLikeJSON(trimmed []byte) bool {
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	object := first == '{' && last == '}'
	array := first == '[' && last == ']'
	return (object || array) && bytes.IndexByte(trimmed, '"') >= 0 && bytes.IndexByte(trimmed, ':') >= 0
}
