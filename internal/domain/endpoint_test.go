package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i2y/apidocgen/internal/domain"
)

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		dialect domain.Dialect
		folder  domain.FolderPath
		leaf    string
		wantRel string
	}{
		{
			name:    "Definition style groups by category",
			dialect: domain.DialectDefinition,
			folder:  domain.FolderPath{"Chat Models", "GPT-4o"},
			leaf:    "Create Completion",
			wantRel: "openai/gpt-4o/create-completion.mdx",
		},
		{
			name:    "Definition style without folder",
			dialect: domain.DialectDefinition,
			folder:  nil,
			leaf:    "Health",
			wantRel: "other/health.mdx",
		},
		{
			name:    "Collection style groups by first segment",
			dialect: domain.DialectCollection,
			folder:  domain.FolderPath{"Claude (Anthropic)", "Messages"},
			leaf:    "Send!",
			wantRel: "claude-anthropic/messages/send.mdx",
		},
		{
			name:    "Collection style ignores keywords",
			dialect: domain.DialectCollection,
			folder:  domain.FolderPath{"Misc"},
			leaf:    "GPT proxy",
			wantRel: "misc/gpt-proxy.mdx",
		},
		{
			name:    "Collection style empty segments fall back",
			dialect: domain.DialectCollection,
			folder:  domain.FolderPath{"", "??"},
			leaf:    "",
			wantRel: "other/other/unnamed.mdx",
		},
		{
			name:    "Collection style at root",
			dialect: domain.DialectCollection,
			folder:  nil,
			leaf:    "Ping",
			wantRel: "other/ping.mdx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ResolveOutputPath(tt.dialect, tt.folder, tt.leaf)
			assert.Equal(t, tt.wantRel, got.Rel("mdx"))
			again := domain.ResolveOutputPath(tt.dialect, tt.folder, tt.leaf)
			assert.Equal(t, got, again, "output path must be deterministic")
		})
	}
}

func TestFolderPath_ExtendDoesNotAlias(t *testing.T) {
	base := make(domain.FolderPath, 1, 4)
	base[0] = "A"
	b := base.Extend("B")
	c := base.Extend("C")
	assert.Equal(t, domain.FolderPath{"A", "B"}, b)
	assert.Equal(t, domain.FolderPath{"A", "C"}, c)
	assert.Equal(t, "A/B", b.String())
}

func TestGroupLabel(t *testing.T) {
	assert.Equal(t, "OpenAI", domain.GroupLabel(domain.DialectDefinition, domain.FolderPath{"GPT"}, "openai"))
	assert.Equal(t, "Claude Models", domain.GroupLabel(domain.DialectCollection, domain.FolderPath{"Claude Models", "x"}, "claude-models"))
	assert.Equal(t, "other", domain.GroupLabel(domain.DialectCollection, nil, "other"))
}
