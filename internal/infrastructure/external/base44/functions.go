package base44

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Remote function names exposed by the backend
const (
	FuncGenerateVideo  = "generateVideo"
	FuncCheckJobStatus = "checkJobStatus"
)

// Functions invokes named backend functions
type Functions struct {
	client *Client
}

// Functions returns the remote function invoker
func (c *Client) Functions() *Functions {
	return &Functions{client: c}
}

// Invoke calls the named function with payload and returns its raw result
func (f *Functions) Invoke(ctx context.Context, name string, payload interface{}) (json.RawMessage, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	var out json.RawMessage
	if err := f.client.Post(ctx, "/functions/"+url.PathEscape(name), payload, &out); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", name, err)
	}
	return out, nil
}

// GenerateVideo starts a video generation job
func (f *Functions) GenerateVideo(ctx context.Context, params map[string]interface{}) (json.RawMessage, error) {
	return f.Invoke(ctx, FuncGenerateVideo, params)
}

// CheckJobStatus polls a job started by GenerateVideo
func (f *Functions) CheckJobStatus(ctx context.Context, jobID string) (json.RawMessage, error) {
	return f.Invoke(ctx, FuncCheckJobStatus, map[string]interface{}{"job_id": jobID})
}
