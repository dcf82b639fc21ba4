package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndSplitName(t *testing.T) {
	tests := []struct {
		first, last string
		stored      string
		wantFirst   string
		wantLast    string
	}{
		{"Juan", "Pérez", "Juan Pérez", "Juan", "Pérez"},
		{" Juan ", " Pérez  García ", "Juan Pérez García", "Juan", "Pérez García"},
		{"Juan", "", "Juan", "Juan", ""},
		{"", "Pérez", "Pérez", "Pérez", ""},
		{"", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			stored := JoinName(tt.first, tt.last)
			assert.Equal(t, tt.stored, stored)

			first, last := SplitName(stored)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestNewClient(t *testing.T) {
	tenantID := uuid.New()

	client, err := NewClient(tenantID, "María", "López Soto")
	require.NoError(t, err)
	assert.Equal(t, "María López Soto", client.Name)
	assert.Equal(t, "María", client.FirstName())
	assert.Equal(t, "López Soto", client.LastName())
	assert.Equal(t, DocumentTypeOther, client.DocumentType)
	assert.True(t, client.IsActive)

	_, err = NewClient(tenantID, " ", "")
	assert.Equal(t, "INVALID_NAME", shared.CodeOf(err))

	_, err = NewClient(uuid.Nil, "María", "")
	assert.ErrorIs(t, err, shared.ErrTenantRequired)
}

func TestClient_SetDocument(t *testing.T) {
	client, err := NewClient(uuid.New(), "María", "López")
	require.NoError(t, err)

	tests := []struct {
		name    string
		docType DocumentType
		number  string
		errCode string
	}{
		{"valid dni", DocumentTypeDNI, "12345678", ""},
		{"lower case type", "ruc", "20123456789", ""},
		{"short dni", DocumentTypeDNI, "1234", "INVALID_DOCUMENT_NUMBER"},
		{"ruc with letters", DocumentTypeRUC, "20A23456789", "INVALID_DOCUMENT_NUMBER"},
		{"passport", DocumentTypePassport, "ab-12345", ""},
		{"unknown type", "XYZ", "1", "INVALID_DOCUMENT_TYPE"},
		{"clear number", DocumentTypeDNI, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.SetDocument(tt.docType, tt.number)
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, shared.CodeOf(err))
				return
			}
			require.NoError(t, err)
		})
	}

	require.NoError(t, client.SetDocument(DocumentTypePassport, "ab-12345"))
	assert.Equal(t, "AB-12345", client.DocumentNumber)
}

func TestClient_Contact(t *testing.T) {
	client, err := NewClient(uuid.New(), "María", "López")
	require.NoError(t, err)

	require.NoError(t, client.SetContact("Maria@Mail.com", " 999 ", ""))
	assert.Equal(t, "maria@mail.com", client.Email)
	assert.Equal(t, "999", client.Phone)

	require.NoError(t, client.SetContact("", "", ""), "email is optional")
	assert.Equal(t, "INVALID_EMAIL", shared.CodeOf(client.SetContact("nope", "", "")))
}

func TestClient_SoftDelete(t *testing.T) {
	client, err := NewClient(uuid.New(), "María", "López")
	require.NoError(t, err)

	require.NoError(t, client.Deactivate())
	assert.ErrorIs(t, client.Deactivate(), shared.ErrAlreadyInactive)
	require.NoError(t, client.Activate())
	assert.True(t, client.IsActive)
}
