package agencyapi

import (
	"context"
	"encoding/json"
)

const (
	clientsPath    = "/api/agency/clients"
	recordingsPath = "/voice/recordings"
)

// CRM reaches the backend's client records
type CRM struct{ resource }

func (c *CRM) ListClients(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	out, err := c.get(ctx, clientsPath, toValues(filters))
	return out, wrap("list clients", err)
}

func (c *CRM) GetClient(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := c.get(ctx, join(clientsPath, id), nil)
	return out, wrap("get client", err)
}

func (c *CRM) CreateClient(ctx context.Context, client interface{}) (json.RawMessage, error) {
	out, err := c.post(ctx, clientsPath, client)
	return out, wrap("create client", err)
}

func (c *CRM) UpdateClient(ctx context.Context, id string, client interface{}) (json.RawMessage, error) {
	out, err := c.put(ctx, join(clientsPath, id), client)
	return out, wrap("update client", err)
}

func (c *CRM) DeleteClient(ctx context.Context, id string) error {
	return wrap("delete client", c.delete(ctx, join(clientsPath, id)))
}

func (c *CRM) ListContacts(ctx context.Context, clientID string) (json.RawMessage, error) {
	out, err := c.get(ctx, join(clientsPath, clientID, "contacts"), nil)
	return out, wrap("list client contacts", err)
}

func (c *CRM) CreateContact(ctx context.Context, clientID string, contact interface{}) (json.RawMessage, error) {
	out, err := c.post(ctx, join(clientsPath, clientID, "contacts"), contact)
	return out, wrap("create client contact", err)
}

func (c *CRM) ListCommunications(ctx context.Context, clientID string) (json.RawMessage, error) {
	out, err := c.get(ctx, join(clientsPath, clientID, "communications"), nil)
	return out, wrap("list client communications", err)
}

func (c *CRM) CreateCommunication(ctx context.Context, clientID string, comm interface{}) (json.RawMessage, error) {
	out, err := c.post(ctx, join(clientsPath, clientID, "communications"), comm)
	return out, wrap("create client communication", err)
}

func (c *CRM) UploadClientFile(ctx context.Context, clientID string, f File) (json.RawMessage, error) {
	out, err := c.upload(ctx, join(clientsPath, clientID, "files"), nil, f)
	return out, wrap("upload client file", err)
}

// Voice manages talent voice recordings
type Voice struct{ resource }

func (v *Voice) ListRecordings(ctx context.Context, talentID string) (json.RawMessage, error) {
	out, err := v.get(ctx, recordingsPath, toValues(map[string]string{"talent_id": talentID}))
	return out, wrap("list voice recordings", err)
}

func (v *Voice) UploadRecording(ctx context.Context, talentID string, f File) (json.RawMessage, error) {
	out, err := v.upload(ctx, recordingsPath, map[string]string{"talent_id": talentID}, f)
	return out, wrap("upload voice recording", err)
}

func (v *Voice) DeleteRecording(ctx context.Context, id string) error {
	return wrap("delete voice recording", v.delete(ctx, join(recordingsPath, id)))
}
