package service

import (
	"context"
	"fmt"
	"testing"

	"collab-docs-be/internal/dto"
	"collab-docs-be/pkg/content"
	"collab-docs-be/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, nodes []content.Node) string {
	t.Helper()
	data, err := content.MarshalNodes(nodes)
	require.NoError(t, err)
	return string(data)
}

func repaginator() *documentService {
	return &documentService{}
}

func TestRepaginateMovesOverflowingChildren(t *testing.T) {
	root := []content.Node{content.NewPage(
		content.NewParagraph(content.NewText("a")),
		content.NewParagraph(content.NewText("b")),
	)}

	req := &dto.RepaginateRequest{
		Content: marshal(t, root),
		Heights: map[string]float64{
			"0.0": pagination.ContentHeight - 100,
			"0.1": 300,
		},
	}

	res, err := repaginator().Repaginate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Moved, "expected content to move")

	reflowed, err := content.UnmarshalNodes([]byte(res.Content))
	require.NoError(t, err)
	require.Len(t, reflowed, 2)

	second := reflowed[1].(*content.Element)
	assert.Equal(t, "b", content.PlainText(second))
}

func TestRepaginateFittingContentIsStable(t *testing.T) {
	root := []content.Node{content.NewPage(
		content.NewParagraph(content.NewText("a")),
		content.NewParagraph(content.NewText("b")),
	)}

	req := &dto.RepaginateRequest{
		Content: marshal(t, root),
		Heights: map[string]float64{"0.0": 100, "0.1": 100},
	}

	res, err := repaginator().Repaginate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Moved, "fitting content should not move")
}

func TestRepaginateRejectsBadContent(t *testing.T) {
	req := &dto.RepaginateRequest{
		Content: "{not a tree",
		Heights: map[string]float64{},
	}
	_, err := repaginator().Repaginate(context.Background(), req)
	assert.Error(t, err)
}

func TestRepaginateIgnoresUnresolvableHeightKeys(t *testing.T) {
	root := []content.Node{content.NewPage(content.NewParagraph(content.NewText("a")))}

	req := &dto.RepaginateRequest{
		Content: marshal(t, root),
		Heights: map[string]float64{
			"nonsense": 100,
			"9.9":      100,
			"0":        100,
			"0.0":      100,
		},
	}

	_, err := repaginator().Repaginate(context.Background(), req)
	assert.NoError(t, err)
}

func TestResolveChild(t *testing.T) {
	para := content.NewParagraph(content.NewText("x"))
	root := []content.Node{content.NewPage(para)}

	tests := []struct {
		key  string
		want content.Node
		ok   bool
	}{
		{"0.0", para, true},
		{"0.1", nil, false},
		{"1.0", nil, false},
		{"-1.0", nil, false},
		{"a.b", nil, false},
		{"0", nil, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("key=%s", tt.key), func(t *testing.T) {
			node, ok := resolveChild(root, tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Same(t, tt.want, node)
			}
		})
	}
}
