package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcabel/safework/internal/model"
)

func TestIsLoggedIn(t *testing.T) {
	app := &App{}
	assert.False(t, app.isLoggedIn())

	app.user = &model.User{Username: "admin"}
	assert.True(t, app.isLoggedIn())
}

func TestGetStatus(t *testing.T) {
	app, _ := newCommandTestApp(t)

	assert.Equal(t, "(local-only)", app.getStatus())

	app.sync.SetWorkspace("ws1")
	assert.Equal(t, "", app.getStatus(), "idle synced workspace adds nothing")

	loginAdmin(t, app)
	assert.Equal(t, "(admin)", app.getStatus())

	app.data.AddAssessment(context.Background(), model.Assessment{
		Title:     "Onveilig",
		Questions: []model.Question{{ID: "q1", Answer: model.AnswerNOK}},
	})
	require.Equal(t, 1, app.data.UnreadCount())
	assert.Equal(t, "(admin !1)", app.getStatus())
}
