package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcabel/safework/internal/model"
)

func ass(id string, ts int64, title string) model.Assessment {
	return model.Assessment{ID: id, Timestamp: ts, Title: title}
}

func TestByID_RemoteNewerWins(t *testing.T) {
	local := []model.Assessment{ass("a", 100, "old")}
	remote := []model.Assessment{ass("a", 200, "new")}

	out := ByID(local, remote)
	require.Len(t, out, 1)
	assert.Equal(t, int64(200), out[0].Timestamp)
	assert.Equal(t, "new", out[0].Title)
}

func TestByID_LocalNewerRetainedUnchanged(t *testing.T) {
	local := []model.Assessment{ass("a", 200, "mine")}
	remote := []model.Assessment{ass("a", 100, "stale")}

	out := ByID(local, remote)
	require.Len(t, out, 1)
	assert.Equal(t, local[0], out[0])
}

func TestByID_TieKeepsLocal(t *testing.T) {
	local := []model.Assessment{ass("a", 100, "mine")}
	remote := []model.Assessment{ass("a", 100, "theirs")}

	out := ByID(local, remote)
	require.Len(t, out, 1)
	assert.Equal(t, "mine", out[0].Title)
}

func TestByID_EmptyLocalTakesRemote(t *testing.T) {
	out := ByID(nil, []model.Assessment{ass("x", 1, "only")})
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].ID)
}

func TestByID_DisjointIDsLoseNothing(t *testing.T) {
	local := []model.Assessment{ass("a", 10, ""), ass("b", 20, "")}
	remote := []model.Assessment{ass("c", 30, ""), ass("d", 5, "")}

	out := ByID(local, remote)
	require.Len(t, out, 4)
	ids := map[string]bool{}
	for _, a := range out {
		ids[a.ID] = true
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		assert.True(t, ids[want], "missing %s", want)
	}
}

func TestByID_Idempotent(t *testing.T) {
	local := []model.Assessment{ass("a", 100, "l"), ass("b", 300, "l")}
	remote := []model.Assessment{ass("a", 200, "r"), ass("c", 50, "r")}

	once := ByID(local, remote)
	twice := ByID(once, remote)
	assert.Equal(t, once, twice)
}

func TestByID_OrderedNewestFirst(t *testing.T) {
	local := []model.Assessment{ass("a", 10, ""), ass("b", 30, "")}
	remote := []model.Assessment{ass("c", 20, "")}

	out := ByID(local, remote)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestByID_EqualStampsOrderedByID(t *testing.T) {
	local := []model.Assessment{ass("b", 7, ""), ass("a", 7, "")}
	out := ByID(local, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestByID_MissingIDSkipped(t *testing.T) {
	local := []model.Assessment{ass("", 999, "no id"), ass("a", 1, "")}
	remote := []model.Assessment{ass("", 500, "also no id")}

	out := ByID(local, remote)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestByID_ZeroStampTreatedAsOldest(t *testing.T) {
	local := []model.Assessment{ass("a", 0, "unstamped")}
	remote := []model.Assessment{ass("a", 1, "stamped")}

	out := ByID(local, remote)
	require.Len(t, out, 1)
	assert.Equal(t, "stamped", out[0].Title)
}

func TestByID_DuplicateLocalIDLastWriteWins(t *testing.T) {
	local := []model.Assessment{ass("a", 10, "first"), ass("a", 5, "second")}
	out := ByID(local, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].Title)
}

func TestByID_TombstonePropagates(t *testing.T) {
	// A tombstoned remote copy with a newer stamp replaces the live local
	// item, so the deletion is not resurrected.
	local := []model.Assessment{ass("a", 100, "live")}
	deleted := ass("a", 200, "live")
	deleted.DeletedAt = 200
	out := ByID(local, []model.Assessment{deleted})
	require.Len(t, out, 1)
	assert.True(t, out[0].Deleted())
}

func TestByID_WorksForUsers(t *testing.T) {
	local := []model.User{{ID: "u1", Username: "eddy", Timestamp: 50}}
	remote := []model.User{
		{ID: "u1", Username: "eddy", Name: "Eddy V.", Timestamp: 60},
		{ID: "u2", Username: "john", Timestamp: 10},
	}
	out := ByID(local, remote)
	require.Len(t, out, 2)
	assert.Equal(t, "Eddy V.", out[0].Name)
}

func TestConfig_NewerSnapshotWins(t *testing.T) {
	local := &model.AppConfig{AppName: "local"}
	remote := &model.AppConfig{AppName: "remote"}

	assert.Equal(t, remote, Config(local, 100, remote, 200))
	assert.Equal(t, local, Config(local, 200, remote, 100))
	assert.Equal(t, local, Config(local, 100, remote, 100))
	assert.Equal(t, local, Config(local, 0, nil, 999))
	assert.Equal(t, remote, Config(nil, 0, remote, 0))
}
