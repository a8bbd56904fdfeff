package config

import (
	"strings"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/zerr"
)

// SplitFlags splits a compiler flag string into words the way a POSIX shell
// would for simple command lines: whitespace separates words, single quotes
// are literal, double quotes allow backslash escapes. No expansion happens.
func SplitFlags(s string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, ch := range s {
		switch {
		case escaped:
			word.WriteRune(ch)
			escaped = false
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			} else {
				word.WriteRune(ch)
			}
		case quote == '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				word.WriteRune(ch)
			}
		case ch == '\\':
			escaped = true
			inWord = true
		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(ch)
			inWord = true
		}
	}

	if escaped {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidFlags, "trailing backslash"), "flags", s)
	}
	if quote != 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidFlags, "unterminated quote"), "flags", s)
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
