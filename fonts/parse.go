package fonts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

// ParseFontFaces builds a face for every @font-face rule in a stylesheet,
// including rules nested in @media and @supports blocks. local() sources
// resolve against registry and url() sources fetch through loader; either
// may be nil, in which case the corresponding sources are dropped. url()
// sources with a format() hint this package cannot decode are skipped.
// Rules without a family or without any usable source are ignored.
func ParseFontFaces(text string, loader ResourceLoader, registry *Registry, opts ...FaceOption) ([]*Face, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}

	var faces []*Face
	var walk func(rules []*css.Rule)
	walk = func(rules []*css.Rule) {
		for _, rule := range rules {
			if rule.Kind != css.AtRule {
				continue
			}
			if len(rule.Rules) > 0 {
				walk(rule.Rules)
				continue
			}
			if !strings.EqualFold(rule.Name, "@font-face") {
				continue
			}
			if f := faceFromRule(rule, loader, registry, opts); f != nil {
				faces = append(faces, f)
			}
		}
	}
	walk(sheet.Rules)
	return faces, nil
}

func faceFromRule(rule *css.Rule, loader ResourceLoader, registry *Registry, opts []FaceOption) *Face {
	f := NewFace("", opts...)
	var entries []srcEntry
	for _, decl := range rule.Declarations {
		switch strings.ToLower(decl.Property) {
		case "font-family":
			f.Family = unquote(decl.Value)
		case "font-weight":
			f.Weight = parseWeight(decl.Value)
		case "font-style":
			style := strings.ToLower(strings.TrimSpace(decl.Value))
			f.Italic = strings.HasPrefix(style, "italic") || strings.HasPrefix(style, "oblique")
		case "src":
			entries = parseSrc(decl.Value)
		}
	}
	if f.Family == "" {
		return nil
	}

	for _, e := range entries {
		switch {
		case e.local:
			if registry != nil {
				f.AddSource(NewLocalSource(e.value, registry))
			}
		case loader != nil && SupportedFormat(e.format):
			f.AddSource(NewRemoteSource(e.value, e.format, loader))
		}
	}
	if len(f.sources) == 0 {
		return nil
	}
	return f
}

type srcEntry struct {
	local  bool
	value  string
	format string
}

// parseSrc splits a src descriptor into its comma separated entries.
func parseSrc(value string) []srcEntry {
	s := scanner.New(value)
	var entries []srcEntry
	var cur *srcEntry
	flush := func() {
		if cur != nil && cur.value != "" {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			flush()
			return entries
		case scanner.TokenURI:
			cur = &srcEntry{value: unwrapURI(tok.Value)}
		case scanner.TokenFunction:
			args := functionArgs(s)
			switch strings.ToLower(strings.TrimSuffix(tok.Value, "(")) {
			case "local":
				cur = &srcEntry{local: true, value: args}
			case "format":
				if cur != nil {
					cur.format = args
				}
			}
		case scanner.TokenChar:
			if tok.Value == "," {
				flush()
			}
		}
	}
}

// functionArgs consumes tokens up to the closing parenthesis and joins the
// idents and strings it saw.
func functionArgs(s *scanner.Scanner) string {
	var parts []string
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			return strings.Join(parts, " ")
		case scanner.TokenString:
			parts = append(parts, unquote(tok.Value))
		case scanner.TokenIdent, scanner.TokenNumber, scanner.TokenDimension:
			parts = append(parts, tok.Value)
		case scanner.TokenChar:
			if tok.Value == ")" {
				return strings.Join(parts, " ")
			}
		}
	}
}

func unwrapURI(v string) string {
	v = strings.TrimSpace(v[len("url(") : len(v)-1])
	return unquote(v)
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return v
}

func parseWeight(v string) int {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "normal":
		return 400
	case "bold":
		return 700
	}
	// Variable fonts declare a range; the lower bound stands for the face.
	if first, _, ok := strings.Cut(v, " "); ok {
		v = first
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		return 0
	}
	return n
}
