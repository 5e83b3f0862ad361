package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_RendersUploadLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Index(IndexPage{MaxUpload: "50 MiB"}).Render(context.Background(), &buf))

	body := buf.String()
	assert.Contains(t, body, "<title>Extrator de Atributos</title>")
	assert.Contains(t, body, "Tamanho máximo: 50 MiB</p>")
	assert.Contains(t, body, `name="data_file"`)
	assert.Contains(t, body, `name="config_file"`)
	assert.Contains(t, body, "new EventSource('/api/jobs/progress/stream')")
	assert.Contains(t, body, "</script></body></html>")
}

func TestIndex_EscapesUploadLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Index(IndexPage{MaxUpload: `<b>"1 GiB"</b>`}).Render(context.Background(), &buf))

	body := buf.String()
	assert.NotContains(t, body, "<b>")
	assert.Contains(t, body, "&lt;b&gt;&#34;1 GiB&#34;&lt;/b&gt;")
}

func TestIndex_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Index(IndexPage{MaxUpload: "1 GiB"}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
