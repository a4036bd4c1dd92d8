package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcabel/safework/internal/model"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cfg := model.DefaultConfig()
	in := &model.Snapshot{
		Users:         []model.User{{ID: "u1", Username: "eddy", Timestamp: 5}},
		Assessments:   []model.Assessment{{ID: "a1", Title: "Werf Gent", Timestamp: 9, Status: model.StatusOK}},
		Meetings:      []model.Meeting{},
		Notifications: []model.Notification{},
		Config:        &cfg,
		LastUpdated:   42,
	}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_EmptyBodyIsEmptySnapshot(t *testing.T) {
	for _, body := range []string{"", "   ", "{}"} {
		s, err := Decode([]byte(body))
		require.NoError(t, err, "body %q", body)
		assert.True(t, s.Empty(), "body %q", body)
	}
}

func TestDecode_AbsentCollectionStaysNil(t *testing.T) {
	s, err := Decode([]byte(`{"records":[{"id":"a1","timestamp":7}],"lastUpdated":7}`))
	require.NoError(t, err)

	require.Len(t, s.Assessments, 1)
	assert.Nil(t, s.Users, "absent users must decode to nil, not empty")
	assert.Nil(t, s.Meetings)
	assert.Nil(t, s.Notifications)
	assert.Nil(t, s.Config)
}

func TestDecode_EmptyCollectionIsNotNil(t *testing.T) {
	s, err := Decode([]byte(`{"users":[]}`))
	require.NoError(t, err)
	require.NotNil(t, s.Users)
	assert.Empty(t, s.Users)
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"users": [`))
	require.Error(t, err)

	_, err = Decode([]byte(`<html>Service Unavailable</html>`))
	require.Error(t, err)
}

func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	s, err := Decode([]byte(`{"lastUpdated":3,"futureField":{"x":1}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.LastUpdated)
}

func TestEncode_WireKeys(t *testing.T) {
	data, err := Encode(&model.Snapshot{Assessments: []model.Assessment{{ID: "a1"}}})
	require.NoError(t, err)
	// Assessments travel under the historical "records" key.
	assert.Contains(t, string(data), `"records"`)
	assert.Contains(t, string(data), `"lastUpdated"`)
}
