package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hdrcost/internal/core/domain"
)

func TestParseIncludeLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		depth  int
		header string
		ok     bool
	}{
		{name: "depth one", line: ". /usr/include/vector", depth: 1, header: "/usr/include/vector", ok: true},
		{name: "deep", line: "..... a.h", depth: 5, header: "a.h", ok: true},
		{name: "crlf", line: ".. b.h\r", depth: 2, header: "b.h", ok: true},
		{name: "path with spaces", line: ". dir with space/c.h", depth: 1, header: "dir with space/c.h", ok: true},
		{name: "no dots", line: "a.h", ok: false},
		{name: "no space", line: "..a.h", ok: false},
		{name: "two spaces", line: ".  a.h", ok: false},
		{name: "empty header", line: ". ", ok: false},
		{name: "only dots", line: "...", ok: false},
		{name: "empty", line: "", ok: false},
		{name: "guard hint", line: "Multiple include guards may be useful for:", ok: false},
		{name: "warning", line: "main.cpp:3:10: warning: unused", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, header, ok := domain.ParseIncludeLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.depth, depth)
			assert.Equal(t, tt.header, header)
		})
	}
}

func TestIncludedHeaders(t *testing.T) {
	trace := ". a.h\r\n.. b.h\nIn file included from main.cpp:1:\n. b.h\n... c.h"

	assert.Equal(t, []string{"a.h", "b.h", "c.h"}, domain.IncludedHeaders([]byte(trace)))
	assert.Empty(t, domain.IncludedHeaders(nil))
}
