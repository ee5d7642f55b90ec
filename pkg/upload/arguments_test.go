package upload_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

func TestArguments(t *testing.T) {
	t.Parallel()

	args := upload.NewArguments()
	args.Add("tag", upload.RawValue([]byte("a")))
	args.Add("doc", upload.FileValue(upload.File{Name: "doc", Filename: "r.pdf", Size: 3, Reference: "/tmp/r.pdf"}))
	args.Add("tag", upload.RawValue([]byte("b")))
	args.Add("empty", upload.RawValue(nil))

	t.Run("names keep first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"tag", "doc", "empty"}, args.Names())
		assert.Equal(t, 3, args.Len())
	})

	t.Run("repeated names append", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, args.Strings("tag"))
		vs := args.Values("tag")
		require.Len(t, vs, 2)
		assert.Equal(t, "a", vs[0].String())
		assert.Equal(t, "b", vs[1].String())
	})

	t.Run("first", func(t *testing.T) {
		v, ok := args.First("doc")
		require.True(t, ok)
		assert.True(t, v.IsFile())
		assert.Equal(t, "/tmp/r.pdf", v.String())

		_, ok = args.First("missing")
		assert.False(t, ok)
	})

	t.Run("files", func(t *testing.T) {
		files := args.Files("doc")
		require.Len(t, files, 1)
		assert.Equal(t, "r.pdf", files[0].Filename)
		assert.Empty(t, args.Files("tag"))
	})

	t.Run("nil raw value is empty", func(t *testing.T) {
		v, ok := args.First("empty")
		require.True(t, ok)
		assert.NotNil(t, v.Data)
		assert.Empty(t, v.Data)
	})

	t.Run("form skips files", func(t *testing.T) {
		assert.Equal(t, url.Values{"tag": {"a", "b"}, "empty": {""}}, args.Form())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		names := args.Names()
		names[0] = "changed"
		assert.Equal(t, "tag", args.Names()[0])
	})
}

func TestArgumentsMarshalJSON(t *testing.T) {
	t.Parallel()

	args := upload.NewArguments()
	args.Add("a", upload.RawValue([]byte("1")))
	args.Add("f", upload.FileValue(upload.File{Name: "f", Filename: "x.txt", ContentType: "text/plain", Size: 2, Reference: "ref"}))

	data, err := json.Marshal(args)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"a": ["1"],
		"f": [{"name":"f","filename":"x.txt","content_type":"text/plain","size":2,"reference":"ref"}]
	}`, string(data))
}
