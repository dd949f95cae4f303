package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLog_DropsOldestBeyondCap(t *testing.T) {
	rec := &Record[CategoryFields]{}
	for i := 0; i < MaxActivityLogs+5; i++ {
		rec.AppendLog(fmt.Sprintf("entry %d", i))
	}

	require.Len(t, rec.ActivityLogs, MaxActivityLogs)
	assert.Equal(t, "entry 5", rec.ActivityLogs[0])
	assert.Equal(t, fmt.Sprintf("entry %d", MaxActivityLogs+4), rec.ActivityLogs[MaxActivityLogs-1])
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusNewRecord, StatusForApproval, StatusForDeletion} {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("DELETED")
	assert.Error(t, err)
}

func TestStatus_PendingAndApprovable(t *testing.T) {
	tests := []struct {
		status     Status
		pending    bool
		approvable bool
	}{
		{StatusActive, false, false},
		{StatusNewRecord, false, true},
		{StatusForApproval, true, true},
		{StatusForDeletion, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.pending, tt.status.Pending())
			assert.Equal(t, tt.approvable, tt.status.Approvable())
		})
	}
}

func TestKind_PendingCreateStatus(t *testing.T) {
	for _, k := range Kinds() {
		want := StatusForApproval
		if k == KindProduct {
			want = StatusNewRecord
		}
		assert.Equal(t, want, k.PendingCreateStatus(), k.String())
	}
}

func TestActor_Privileged(t *testing.T) {
	assert.False(t, Actor{Username: "u", Roles: []string{RoleUser}}.Privileged())
	assert.False(t, Actor{Username: "u"}.Privileged())
	assert.True(t, Actor{Username: "a", Roles: []string{RoleAdmin}}.Privileged())
	assert.True(t, Actor{Username: "s", Roles: []string{RoleUser, RoleSuperAdmin}}.Privileged())
}
