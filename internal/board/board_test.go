package board

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroupsByStatus(t *testing.T) {
	doc := `{"tasks":[
		{"id":1,"title":"Plan","status":"backlog","tags":["ops",3,""]},
		{"id":"x2","title":"Build","status":"in_progress","subtasks":[{"done":true},{"done":false},{"done":true}]},
		{"id":3,"status":"done"},
		{"id":4,"title":"Lost","status":"archived"},
		"not an object"
	],"columns":[]}`

	b, err := Build([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Total)
	require.Len(t, b.Columns, 5)

	ids := make([]string, 0, len(b.Columns))
	for _, c := range b.Columns {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"backlog", "in_progress", "review", "done", OtherColumnID}, ids)

	backlog := b.Columns[0].Cards
	require.Len(t, backlog, 1)
	assert.Equal(t, "1", backlog[0].ID)
	assert.Equal(t, []string{"ops"}, backlog[0].Tags)

	build := b.Columns[1].Cards[0]
	assert.Equal(t, "x2", build.ID)
	assert.Equal(t, 2, build.SubtasksDone)
	assert.Equal(t, 3, build.SubtasksTotal)
	assert.Equal(t, 67, build.Progress)

	assert.Empty(t, b.Columns[2].Cards)
	assert.Equal(t, "Untitled", b.Columns[3].Cards[0].Title)
	assert.Equal(t, "Lost", b.Columns[4].Cards[0].Title)
}

func TestBuildToleratesAnyShape(t *testing.T) {
	for _, doc := range []string{`[]`, `null`, `"x"`, `{"tasks":{}}`, `{"columns":["a"]}`} {
		b, err := Build([]byte(doc))
		require.NoError(t, err, doc)
		assert.Equal(t, 0, b.Total, doc)
		assert.Len(t, b.Columns, 4, doc)
	}
}

func TestBuildRejectsMalformed(t *testing.T) {
	_, err := Build([]byte(`{"tasks":[`))
	assert.Error(t, err)
}

func TestDescriptionRendersMarkdown(t *testing.T) {
	b, err := Build([]byte(`{"tasks":[{"title":"t","status":"review","description":"**bold** and <script>alert(1)</script>"}]}`))
	require.NoError(t, err)
	desc := string(b.Columns[2].Cards[0].Description)
	assert.Contains(t, desc, "<strong>bold</strong>")
	assert.NotContains(t, desc, "<script>")
}

func TestRenderMarkdownList(t *testing.T) {
	out := string(RenderMarkdown("- a\r\n- b"))
	assert.True(t, strings.HasPrefix(out, "<ul>"), out)
	assert.Contains(t, out, "<li>a</li>")
}

func TestBuildKeepsLargeNumericIDs(t *testing.T) {
	b, err := Build([]byte(`{"tasks":[{"id":1e400,"title":"huge","status":"backlog"},{"id":42,"status":"done"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "1e400", b.Columns[0].Cards[0].ID)
	assert.Equal(t, "42", b.Columns[3].Cards[0].ID)
}
