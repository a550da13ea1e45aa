package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/refrain/internal/share"
)

func TestLoad_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	require.NoError(t, os.WriteFile(path, []byte("a b\nb c\n"), 0644))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Name)
	assert.Equal(t, "a b\nb c\n", src.Text)
}

func TestLoad_HTML(t *testing.T) {
	page := `<html><head><title>Lyrics</title><style>p{}</style></head>
<body>
  <div class="lyrics">Twinkle, twinkle, <b>little</b> star,<br>
  how I wonder what you are.<br/>
  <script>var x = "not lyrics";</script>
  <p>Up above the world so high</p></div>
</body></html>`
	path := filepath.Join(t.TempDir(), "song.HTML")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	src, err := Load(path)
	require.NoError(t, err)

	want := "Twinkle, twinkle, little star,\nhow I wonder what you are.\nUp above the world so high"
	assert.Equal(t, want, src.Text)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead(t *testing.T) {
	text, err := Read(strings.NewReader("moo moo"), false)
	require.NoError(t, err)
	assert.Equal(t, "moo moo", text)

	text, err = Read(strings.NewReader("<p>moo</p><p>oink</p>"), true)
	require.NoError(t, err)
	assert.Equal(t, "moo\noink", text)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("a/b/song.html"))
	assert.True(t, IsHTML("song.HTM"))
	assert.False(t, IsHTML("song.txt"))
	assert.False(t, IsHTML("html"))
}

func TestFromLink(t *testing.T) {
	link, err := share.URL("https://example.com/", "la la land")
	require.NoError(t, err)

	src, ok := FromLink(link, "fallback")
	assert.True(t, ok)
	assert.Equal(t, Source{Name: "link", Text: "la la land"}, src)

	src, ok = FromLink("https://example.com/?t=%%%", "fallback")
	assert.False(t, ok)
	assert.Equal(t, Source{Name: "sample", Text: "fallback"}, src)
}

func TestSample(t *testing.T) {
	src := Sample()
	assert.Equal(t, "sample", src.Name)
	assert.True(t, strings.HasPrefix(src.Text, "Twinkle, twinkle"))
}
