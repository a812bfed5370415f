package base44

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntities_Routes(t *testing.T) {
	type call struct{ method, path, query string }
	var got []call

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, call{r.Method, r.URL.Path, r.URL.RawQuery})
		w.Write([]byte(`{}`))
	})
	ctx := context.Background()
	agency := c.Entities("Agency")

	_, err := agency.List(ctx, "-created_date")
	require.NoError(t, err)
	_, err = agency.Filter(ctx, map[string]interface{}{"status": "active"})
	require.NoError(t, err)
	_, err = agency.Get(ctx, "a1")
	require.NoError(t, err)
	_, err = agency.Create(ctx, map[string]string{"name": "x"})
	require.NoError(t, err)
	_, err = agency.Update(ctx, "a1", map[string]string{"name": "y"})
	require.NoError(t, err)
	require.NoError(t, agency.Delete(ctx, "a1"))

	assert.Equal(t, []call{
		{"GET", "/entities/Agency", "sort=-created_date"},
		{"GET", "/entities/Agency", "q=%7B%22status%22%3A%22active%22%7D"},
		{"GET", "/entities/Agency/a1", ""},
		{"POST", "/entities/Agency", ""},
		{"PUT", "/entities/Agency/a1", ""},
		{"DELETE", "/entities/Agency/a1", ""},
	}, got)
}

func TestEntities_PassThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","odd_field":true}]`))
	})

	out, err := c.Entities("Talent").List(context.Background(), "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","odd_field":true}]`, string(out))
}

func TestFunctions_Invoke(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/functions/generateVideo":
			assert.JSONEq(t, `{"prompt":"runway"}`, string(body))
			w.Write([]byte(`{"job_id":"j1"}`))
		case "/functions/checkJobStatus":
			assert.JSONEq(t, `{"job_id":"j1"}`, string(body))
			w.Write([]byte(`{"status":"done"}`))
		default:
			assert.JSONEq(t, `{}`, string(body))
			w.Write([]byte(`null`))
		}
	})
	ctx := context.Background()
	fns := c.Functions()

	out, err := fns.GenerateVideo(ctx, map[string]interface{}{"prompt": "runway"})
	require.NoError(t, err)
	var job map[string]string
	require.NoError(t, json.Unmarshal(out, &job))
	assert.Equal(t, "j1", job["job_id"])

	out, err = fns.CheckJobStatus(ctx, "j1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"done"}`, string(out))

	_, err = fns.Invoke(ctx, "ping", nil)
	assert.NoError(t, err)
}
