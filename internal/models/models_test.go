package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/models"
)

func TestRoleListDecodesNativeArray(t *testing.T) {
	var p models.Project
	err := json.Unmarshal([]byte(`{"collaboration_needs": ["Vocalist", "Producer"]}`), &p)
	require.NoError(t, err)
	require.Equal(t, models.RoleList{"Vocalist", "Producer"}, p.CollaborationNeed)
}

func TestRoleListDecodesEncodedString(t *testing.T) {
	var p models.Project
	err := json.Unmarshal([]byte(`{"collaboration_needs": "[\"Mix Engineer\"]"}`), &p)
	require.NoError(t, err)
	require.Equal(t, models.RoleList{"Mix Engineer"}, p.CollaborationNeed)
}

func TestRoleListSwallowsGarbage(t *testing.T) {
	for _, payload := range []string{
		`{"collaboration_needs": "not json at all"}`,
		`{"collaboration_needs": "{\"an\": \"object\"}"}`,
		`{"collaboration_needs": 42}`,
		`{"collaboration_needs": null}`,
	} {
		var p models.Project
		err := json.Unmarshal([]byte(payload), &p)
		require.NoError(t, err, payload)
		require.Empty(t, p.CollaborationNeed, payload)
	}
}

func TestRoleListContains(t *testing.T) {
	roles := models.RoleList{"Vocalist", "Drummer"}
	require.True(t, roles.Contains("Drummer"))
	require.False(t, roles.Contains("Producer"))
}

func TestTimestampAcceptsNaiveIsoformat(t *testing.T) {
	var ts models.Timestamp
	err := json.Unmarshal([]byte(`"2025-07-04T10:30:00.123456"`), &ts)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 7, 4, 10, 30, 0, 123456000, time.UTC), ts.Time)
}

func TestTimestampAcceptsRFC3339(t *testing.T) {
	var ts models.Timestamp
	err := json.Unmarshal([]byte(`"2025-07-04T10:30:00Z"`), &ts)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 7, 4, 10, 30, 0, 0, time.UTC), ts.Time)
}

func TestUsernameFromEmail(t *testing.T) {
	require.Equal(t, "ada", models.UsernameFromEmail("ada@example.com", "did:privy:abcdef123456"))
	require.Equal(t, "user_ef123456", models.UsernameFromEmail("", "did:privy:abcdef123456"))
	require.Equal(t, "user_short", models.UsernameFromEmail("", "short"))
	require.Equal(t, "anonymous", models.UsernameFromEmail("", ""))
}
