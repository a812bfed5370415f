package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

func seededClients() *mockClientRepo {
	return newMockClientRepo(
		&entity.Client{ID: "c1", AgencyID: "ag1", Name: "Nike", Status: entity.ClientStatusActive, Industry: "Sportswear", RevenueCents: 9_000_00},
		&entity.Client{ID: "c2", AgencyID: "ag1", Name: "Acme", Status: entity.ClientStatusLead, Industry: "Retail", RevenueCents: 1_000_00},
	)
}

func newTestClientService(repo *mockClientRepo) (*clientServiceImpl, *mockContactRepo, *mockCommunicationRepo, *mockTxManager) {
	contacts := &mockContactRepo{}
	comms := &mockCommunicationRepo{}
	tx := &mockTxManager{}
	svc := NewClientService(repo, contacts, comms, tx, &mockLogger{}).(*clientServiceImpl)
	svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, contacts, comms, tx
}

func TestClientService_List(t *testing.T) {
	tests := []struct {
		name  string
		query listing.Query
		want  []string
	}{
		{
			name:  "stage active keeps active clients",
			query: listing.Query{Filters: map[string]string{"stage": "active"}},
			want:  []string{"Nike"},
		},
		{
			name:  "search ac with stage all",
			query: listing.Query{Search: "ac", Filters: map[string]string{"stage": "all"}},
			want:  []string{"Acme"},
		},
		{
			name:  "stage lead",
			query: listing.Query{Filters: map[string]string{"stage": "lead"}},
			want:  []string{"Acme"},
		},
		{
			name:  "search matches industry",
			query: listing.Query{Search: "SPORTS"},
			want:  []string{"Nike"},
		},
		{
			name:  "sort by revenue ascending",
			query: listing.Query{SortBy: "revenue"},
			want:  []string{"Acme", "Nike"},
		},
		{
			name:  "sort by revenue descending",
			query: listing.Query{SortBy: "revenue", Desc: true},
			want:  []string{"Nike", "Acme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestClientService(seededClients())

			result, err := svc.List(context.Background(), "ag1", tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}

			var got []string
			for _, c := range result.Items {
				got = append(got, c.Name)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("List()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
			if result.Total != len(tt.want) {
				t.Errorf("List() total = %d, want %d", result.Total, len(tt.want))
			}
		})
	}
}

func TestClientService_ListRepositoryError(t *testing.T) {
	repo := seededClients()
	repo.listFunc = func(ctx context.Context, agencyID string) ([]*entity.Client, error) {
		return nil, errBoom
	}
	svc, _, _, _ := newTestClientService(repo)

	_, err := svc.List(context.Background(), "ag1", listing.Query{})
	if !errors.Is(err, errBoom) {
		t.Errorf("List() error = %v, want wrapped boom", err)
	}
}

func TestClientService_Get(t *testing.T) {
	svc, _, _, _ := newTestClientService(seededClients())

	client, err := svc.Get(context.Background(), "ag1", "c1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if client.Name != "Nike" {
		t.Errorf("Get() name = %s, want Nike", client.Name)
	}

	_, err = svc.Get(context.Background(), "ag1", "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get() missing error = %v, want not found", err)
	}

	_, err = svc.Get(context.Background(), "other-agency", "c1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get() cross-agency error = %v, want not found", err)
	}
}

func TestClientService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      ClientInput
		wantErr    bool
		wantStatus string
	}{
		{
			name:       "stage alias resolves",
			input:      ClientInput{Name: "  Puma ", Status: "prospect", Website: "puma.com"},
			wantStatus: entity.ClientStatusProspect,
		},
		{
			name:       "full status name in any case",
			input:      ClientInput{Name: "Asics", Status: "active client"},
			wantStatus: entity.ClientStatusActive,
		},
		{
			name:       "upper case alias",
			input:      ClientInput{Name: "Fila", Status: " INACTIVE "},
			wantStatus: entity.ClientStatusInactive,
		},
		{
			name:       "default status is lead",
			input:      ClientInput{Name: "Adidas"},
			wantStatus: entity.ClientStatusLead,
		},
		{
			name:    "name required",
			input:   ClientInput{Name: "   "},
			wantErr: true,
		},
		{
			name:    "unknown status",
			input:   ClientInput{Name: "Reebok", Status: "vip"},
			wantErr: true,
		},
		{
			name:    "bad website",
			input:   ClientInput{Name: "Reebok", Website: "ftp://reebok.com"},
			wantErr: true,
		},
		{
			name:    "negative revenue",
			input:   ClientInput{Name: "Reebok", RevenueCents: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockClientRepo()
			svc, _, _, _ := newTestClientService(repo)

			client, err := svc.Create(context.Background(), "ag1", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Errorf("Create() error = %v, want validation error", err)
				}
				return
			}
			if client.Status != tt.wantStatus {
				t.Errorf("Create() status = %s, want %s", client.Status, tt.wantStatus)
			}
			if client.ID == "" || client.AgencyID != "ag1" {
				t.Errorf("Create() id = %q agency = %q", client.ID, client.AgencyID)
			}
			if _, ok := repo.clients[client.ID]; !ok {
				t.Errorf("Create() did not persist the client")
			}
		})
	}
}

func TestClientService_UpdateAndDelete(t *testing.T) {
	repo := seededClients()
	svc, _, _, _ := newTestClientService(repo)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "ag1", "c2", ClientInput{Name: "Acme Corp", Status: "active", Tags: []string{" retail ", ""}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != entity.ClientStatusActive || updated.Name != "Acme Corp" {
		t.Errorf("Update() = %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "retail" {
		t.Errorf("Update() tags = %v, want [retail]", updated.Tags)
	}

	if _, err := svc.Update(ctx, "ag1", "missing", ClientInput{Name: "X"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update() missing error = %v", err)
	}

	if err := svc.Delete(ctx, "ag1", "c1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "ag1", "c1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want not found", err)
	}
}

func TestClientService_Contacts(t *testing.T) {
	repo := seededClients()
	svc, contacts, _, tx := newTestClientService(repo)
	ctx := context.Background()

	contact, err := svc.AddContact(ctx, "ag1", "c1", ContactInput{Name: "Jane Doe", Email: "jane@nike.com", IsPrimary: true})
	if err != nil {
		t.Fatalf("AddContact() error = %v", err)
	}
	if contact.ClientID != "c1" {
		t.Errorf("AddContact() client = %s", contact.ClientID)
	}
	if tx.calls != 1 || repo.refreshedCounts != 1 {
		t.Errorf("AddContact() tx calls = %d, refreshes = %d", tx.calls, repo.refreshedCounts)
	}

	if _, err := svc.AddContact(ctx, "ag1", "c1", ContactInput{Name: "Bad", Email: "not-an-email"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("AddContact() bad email error = %v", err)
	}
	if _, err := svc.AddContact(ctx, "ag1", "missing", ContactInput{Name: "Ghost"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("AddContact() missing client error = %v", err)
	}

	contacts.createErr = errBoom
	if _, err := svc.AddContact(ctx, "ag1", "c1", ContactInput{Name: "Later"}); !errors.Is(err, errBoom) {
		t.Errorf("AddContact() repo error = %v", err)
	}

	list, err := svc.ListContacts(ctx, "ag1", "c1")
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListContacts() = %d contacts, want 1", len(list))
	}
}

func TestClientService_LogCommunication(t *testing.T) {
	repo := seededClients()
	svc, _, comms, _ := newTestClientService(repo)
	ctx := context.Background()

	when := time.Date(2024, 2, 20, 9, 30, 0, 0, time.UTC)
	comm, err := svc.LogCommunication(ctx, "ag1", "c1", CommunicationInput{Kind: "Call", Subject: "Spring campaign", OccurredAt: &when})
	if err != nil {
		t.Fatalf("LogCommunication() error = %v", err)
	}
	if comm.Kind != "call" {
		t.Errorf("LogCommunication() kind = %s, want call", comm.Kind)
	}
	if !repo.touched["c1"].Equal(when) {
		t.Errorf("LogCommunication() last contact = %v, want %v", repo.touched["c1"], when)
	}

	if _, err := svc.LogCommunication(ctx, "ag1", "c1", CommunicationInput{Kind: "fax"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("LogCommunication() bad kind error = %v", err)
	}

	list, err := svc.ListCommunications(ctx, "ag1", "c1")
	if err != nil {
		t.Fatalf("ListCommunications() error = %v", err)
	}
	if len(list) != 1 || len(comms.comms) != 1 {
		t.Errorf("ListCommunications() = %d, want 1", len(list))
	}
}
