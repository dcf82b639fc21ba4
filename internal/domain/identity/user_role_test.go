package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignment(t *testing.T, role *Role, assignedAt time.Time, active bool) RoleAssignment {
	t.Helper()
	ur := NewUserRole(role.TenantID, uuid.New(), role.ID)
	ur.AssignedAt = assignedAt
	ur.IsActive = active
	return RoleAssignment{UserRole: *ur, Role: role}
}

func newTestRole(t *testing.T, tenantID uuid.UUID, code string) *Role {
	t.Helper()
	role, err := NewRole(tenantID, code, code)
	require.NoError(t, err)
	return role
}

func TestDeriveActiveRole(t *testing.T) {
	tenantID := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	admin := newTestRole(t, tenantID, "ADMIN")
	seller := newTestRole(t, tenantID, "SELLER")
	cashier := newTestRole(t, tenantID, "CASHIER")

	t.Run("no assignments", func(t *testing.T) {
		assert.Nil(t, DeriveActiveRole(nil))
	})

	t.Run("latest active assignment wins", func(t *testing.T) {
		got := DeriveActiveRole([]RoleAssignment{
			assignment(t, admin, base, true),
			assignment(t, seller, base.Add(2*time.Hour), true),
			assignment(t, cashier, base.Add(time.Hour), true),
		})
		require.NotNil(t, got)
		assert.Equal(t, "SELLER", got.Code)
	})

	t.Run("inactive join rows are skipped", func(t *testing.T) {
		got := DeriveActiveRole([]RoleAssignment{
			assignment(t, admin, base, true),
			assignment(t, seller, base.Add(time.Hour), false),
		})
		require.NotNil(t, got)
		assert.Equal(t, "ADMIN", got.Code)
	})

	t.Run("inactive roles are skipped", func(t *testing.T) {
		disabled := newTestRole(t, tenantID, "DISABLED")
		require.NoError(t, disabled.Deactivate())

		got := DeriveActiveRole([]RoleAssignment{
			assignment(t, admin, base, true),
			assignment(t, disabled, base.Add(time.Hour), true),
		})
		require.NotNil(t, got)
		assert.Equal(t, "ADMIN", got.Code)
	})

	t.Run("nothing usable", func(t *testing.T) {
		got := DeriveActiveRole([]RoleAssignment{
			assignment(t, admin, base, false),
			{UserRole: *NewUserRole(tenantID, uuid.New(), uuid.New()), Role: nil},
		})
		assert.Nil(t, got)
	})
}

func TestActiveAssignments(t *testing.T) {
	tenantID := uuid.New()
	admin := newTestRole(t, tenantID, "ADMIN")
	seller := newTestRole(t, tenantID, "SELLER")

	got := ActiveAssignments([]RoleAssignment{
		assignment(t, admin, time.Now(), true),
		assignment(t, seller, time.Now(), false),
	})
	require.Len(t, got, 1)
	assert.Equal(t, admin.ID, got[0].Role.ID)
}

func TestUserRole_ReassignAndRevoke(t *testing.T) {
	ur := NewUserRole(uuid.New(), uuid.New(), uuid.New())
	before := ur.AssignedAt

	require.NoError(t, ur.Revoke())
	assert.False(t, ur.IsActive)
	assert.Error(t, ur.Revoke())

	time.Sleep(time.Millisecond)
	ur.Reassign()
	assert.True(t, ur.IsActive)
	assert.True(t, ur.AssignedAt.After(before))
}
