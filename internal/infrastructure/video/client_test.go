package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telehealth-backend/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.VideoConfig{
		BaseURL:    server.URL,
		Token:      "management-token",
		TemplateID: "template-1",
		JoinHost:   "meet.example.com",
		Timeout:    2 * time.Second,
	}, logrus.New())
}

func TestCreateRoom_ParsesRoomID(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody createRoomRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"id": "room-xyz"})
	})

	roomID, err := client.CreateRoom(context.Background(), "room-d1", "Room for Dr. Asha")

	require.NoError(t, err)
	assert.Equal(t, "room-xyz", roomID)
	assert.Equal(t, "Bearer management-token", gotAuth)
	assert.Equal(t, "/v2/rooms", gotPath)
	assert.Equal(t, "template-1", gotBody.TemplateID)
}

func TestCreateRoom_ProviderErrorIsProvisionError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "room limit reached", http.StatusForbidden)
	})

	_, err := client.CreateRoom(context.Background(), "room-d1", "desc")

	assert.ErrorIs(t, err, ErrProvision)
}

func TestCreateRoom_MissingIDIsProvisionError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.CreateRoom(context.Background(), "room-d1", "desc")

	assert.ErrorIs(t, err, ErrProvision)
}

func TestCreateRoomCode_MatchesRequestedRole(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"role": "guest", "code": "guest-code"},
				{"role": "doctor", "code": "doc-code"},
			},
		})
	})

	code, err := client.CreateRoomCode(context.Background(), "room-xyz", "doctor", "Asha Rao")

	require.NoError(t, err)
	assert.Equal(t, "doc-code", code)
	assert.Equal(t, "/v2/room-codes/room/room-xyz", gotPath)
}

func TestCreateRoomCode_MissingRoleIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"role": "guest", "code": "guest-code"}},
		})
	})

	code, err := client.CreateRoomCode(context.Background(), "room-xyz", "doctor", "Asha Rao")

	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestJoinURL(t *testing.T) {
	client := NewClient(config.VideoConfig{JoinHost: "meet.example.com"}, logrus.New())

	assert.Equal(t, "https://meet.example.com/meeting/abc", client.JoinURL("abc"))
	assert.Empty(t, client.JoinURL(""))
}
