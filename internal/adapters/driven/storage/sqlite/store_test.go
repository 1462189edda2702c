package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempo-labs/tempo-cli/internal/core/domain"
)

// testNow is the injected validation clock. Absolute past dates keep
// the schema triggers (which use the wall clock) out of the way.
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.Local)

// at builds a local timestamp on the test day.
func at(hour, min int) time.Time {
	return time.Date(2024, 5, 15, hour, min, 0, 0, time.Local)
}

// setupTestStore creates a temporary SQLite store with a fixed clock.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	store.SetClock(func() time.Time { return testNow })

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// openActivity builds a running activity candidate.
func openActivity(id string, start time.Time) domain.Activity {
	return domain.Activity{ID: id, Start: start}
}

// closedActivity builds a closed activity candidate.
func closedActivity(id string, start, stop time.Time) domain.Activity {
	return domain.Activity{ID: id, Start: start, Stop: &stop}
}

// rowCount counts stored activities directly.
func rowCount(t *testing.T, store *Store) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n))
	return n
}

// snapshot captures the full table contents for unchanged-store checks.
func snapshot(t *testing.T, store *Store) []domain.Activity {
	t.Helper()
	tx, err := store.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback() //nolint:errcheck

	activities, err := readActivitiesTx(context.Background(), tx)
	require.NoError(t, err)
	return activities
}

// ==================== Store Creation ====================

func TestNewStore_CreatesParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "store.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dbPath, store.Path())
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Second open re-checks integrity and skips applied migrations.
	store, err = NewStore(dbPath)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestNewStore_RefusesNonDatabaseFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("this is not a database"), 0600))

	_, err := NewStore(dbPath)
	assert.Error(t, err)
}

func TestSchema_EnforcesColumnTypes(t *testing.T) {
	store := setupTestStore(t)

	// The table is STRICT: a non-text value is rejected at the schema
	// level rather than coerced.
	_, err := store.db.Exec(
		"INSERT INTO activities (id, start_at) VALUES (?, ?)", 42, at(8, 0).Unix())
	assert.Error(t, err)
	assert.Equal(t, 0, rowCount(t, store))
}

// ==================== Single-Running Invariant ====================

func TestStartOpen_Succeeds(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := openActivity("aaaa0001", at(9, 0))
	a.Message = "kerbal gaming"

	id, err := store.StartOpen(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "aaaa0001", id)

	running, err := store.Running(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kerbal gaming", running.Message)
	assert.Empty(t, running.Project)
	assert.True(t, running.Start.Equal(at(9, 0)))
	assert.Nil(t, running.Stop)
}

func TestStartOpen_ConflictLeavesStoreUnchanged(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.StartOpen(ctx, openActivity("aaaa0001", at(9, 0)))
	require.NoError(t, err)
	before := snapshot(t, store)

	_, err = store.StartOpen(ctx, openActivity("bbbb0002", at(10, 0)))
	assert.ErrorIs(t, err, domain.ErrActivityRunning)
	assert.Equal(t, before, snapshot(t, store))
}

func TestStartOpen_FutureStart(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.StartOpen(context.Background(), openActivity("aaaa0001", testNow.Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrFutureStart)
	assert.Equal(t, 0, rowCount(t, store))
}

func TestStartOpen_RejectsStartInsideClosedInterval(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(8, 0), at(9, 0)))
	require.NoError(t, err)

	_, err = store.StartOpen(ctx, openActivity("bbbb0002", at(8, 30)))
	assert.ErrorIs(t, err, domain.ErrOverlap)
	assert.Equal(t, 1, rowCount(t, store))
}

// ==================== Closing ====================

func TestCloseOpen_Succeeds(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := openActivity("aaaa0001", at(9, 0))
	a.Message = "kerbal gaming"
	_, err := store.StartOpen(ctx, a)
	require.NoError(t, err)

	id, err := store.CloseOpen(ctx, nil, nil, at(9, 37))
	require.NoError(t, err)
	assert.Equal(t, "aaaa0001", id)

	_, err = store.Running(ctx)
	assert.ErrorIs(t, err, domain.ErrNoRunningActivity)

	stored := snapshot(t, store)
	require.Len(t, stored, 1)
	assert.Equal(t, "kerbal gaming", stored[0].Message)
	require.NotNil(t, stored[0].Stop)
	assert.True(t, stored[0].Stop.Equal(at(9, 37)))
}

func TestCloseOpen_NoRunningActivity(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.CloseOpen(context.Background(), nil, nil, at(10, 0))
	assert.ErrorIs(t, err, domain.ErrNoRunningActivity)
}

func TestCloseOpen_RewritesAndClearsMetadata(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a := openActivity("aaaa0001", at(9, 0))
	a.Message = "draft"
	a.Project = "tempo"
	_, err := store.StartOpen(ctx, a)
	require.NoError(t, err)

	newMessage := "reviewed"
	clear := ""
	_, err = store.CloseOpen(ctx, &newMessage, &clear, at(10, 0))
	require.NoError(t, err)

	stored := snapshot(t, store)
	require.Len(t, stored, 1)
	assert.Equal(t, "reviewed", stored[0].Message)
	assert.Empty(t, stored[0].Project)

	// The cleared field is NULL, never the empty string.
	var projectIsNull bool
	require.NoError(t, store.db.QueryRow(
		"SELECT project IS NULL FROM activities WHERE id = ?", "aaaa0001").Scan(&projectIsNull))
	assert.True(t, projectIsNull)
}

func TestCloseOpen_StopBeforeStart(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.StartOpen(ctx, openActivity("aaaa0001", at(9, 0)))
	require.NoError(t, err)

	_, err = store.CloseOpen(ctx, nil, nil, at(8, 0))
	assert.ErrorIs(t, err, domain.ErrStopBeforeStart)

	// Still running: the rejected close changed nothing.
	running, err := store.Running(ctx)
	require.NoError(t, err)
	assert.Nil(t, running.Stop)
}

func TestCloseOpen_FutureStop(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.StartOpen(ctx, openActivity("aaaa0001", at(9, 0)))
	require.NoError(t, err)

	_, err = store.CloseOpen(ctx, nil, nil, testNow.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrFutureStop)
}

func TestCloseOpen_OverlapExcludesSelf(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(8, 0), at(9, 0)))
	require.NoError(t, err)
	_, err = store.StartOpen(ctx, openActivity("bbbb0002", at(9, 30)))
	require.NoError(t, err)

	// Closing the open record against only the other rows succeeds.
	id, err := store.CloseOpen(ctx, nil, nil, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, "bbbb0002", id)
}

// ==================== Discard ====================

func TestDiscardOpen_RemovesExactlyTheOpenRow(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(7, 0), at(8, 0)))
	require.NoError(t, err)
	_, err = store.StartOpen(ctx, openActivity("bbbb0002", at(9, 0)))
	require.NoError(t, err)
	require.Equal(t, 2, rowCount(t, store))

	id, err := store.DiscardOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bbbb0002", id)
	assert.Equal(t, 1, rowCount(t, store))

	_, err = store.Running(ctx)
	assert.ErrorIs(t, err, domain.ErrNoRunningActivity)
}

func TestDiscardOpen_NoRunningActivity(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DiscardOpen(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRunningActivity)
}

// ==================== Overlap Invariant ====================

func TestAddClosed_RejectsOverlaps(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(8, 0), at(9, 0)))
	require.NoError(t, err)
	before := snapshot(t, store)

	// Contained interval.
	_, err = store.AddClosed(ctx, closedActivity("bbbb0002", at(8, 30), at(9, 30)))
	assert.ErrorIs(t, err, domain.ErrOverlap)

	// Touching endpoints count as overlap: boundaries are inclusive.
	_, err = store.AddClosed(ctx, closedActivity("cccc0003", at(9, 0), at(10, 0)))
	assert.ErrorIs(t, err, domain.ErrOverlap)
	_, err = store.AddClosed(ctx, closedActivity("dddd0004", at(7, 0), at(8, 0)))
	assert.ErrorIs(t, err, domain.ErrOverlap)

	assert.Equal(t, before, snapshot(t, store))
}

func TestAddClosed_StopBeforeStart(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.AddClosed(context.Background(), closedActivity("aaaa0001", at(9, 0), at(9, 0)))
	assert.ErrorIs(t, err, domain.ErrStopBeforeStart)
	assert.Equal(t, 0, rowCount(t, store))
}

func TestAddClosed_FutureBoundaries(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", testNow.Add(time.Hour), testNow.Add(2*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrFutureStart)

	_, err = store.AddClosed(ctx, closedActivity("aaaa0001", at(11, 0), testNow.Add(time.Hour)))
	assert.ErrorIs(t, err, domain.ErrFutureStop)

	assert.Equal(t, 0, rowCount(t, store))
}

func TestAddClosed_NormalizesEmptyMetadataToNull(t *testing.T) {
	store := setupTestStore(t)

	a := closedActivity("aaaa0001", at(8, 0), at(9, 0))
	a.Message = ""
	a.Project = ""
	_, err := store.AddClosed(context.Background(), a)
	require.NoError(t, err)

	var messageIsNull, projectIsNull bool
	require.NoError(t, store.db.QueryRow(
		"SELECT message IS NULL, project IS NULL FROM activities WHERE id = ?",
		"aaaa0001").Scan(&messageIsNull, &projectIsNull))
	assert.True(t, messageIsNull)
	assert.True(t, projectIsNull)
}

// ==================== Prefix Deletion ====================

func TestDeleteByIDPrefix(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa1111", at(6, 0), at(7, 0)))
	require.NoError(t, err)
	_, err = store.AddClosed(ctx, closedActivity("aabb2222", at(7, 30), at(8, 0)))
	require.NoError(t, err)
	_, err = store.AddClosed(ctx, closedActivity("ccdd3333", at(8, 30), at(9, 0)))
	require.NoError(t, err)

	t.Run("too short fails before lookup", func(t *testing.T) {
		_, err := store.DeleteByIDPrefix(ctx, "aa")
		assert.ErrorIs(t, err, domain.ErrPrefixTooShort)
		assert.Equal(t, 3, rowCount(t, store))
	})

	t.Run("zero matches", func(t *testing.T) {
		_, err := store.DeleteByIDPrefix(ctx, "ffff")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 3, rowCount(t, store))
	})

	t.Run("unique match deletes exactly one", func(t *testing.T) {
		id, err := store.DeleteByIDPrefix(ctx, "ccdd")
		require.NoError(t, err)
		assert.Equal(t, "ccdd3333", id)
		assert.Equal(t, 2, rowCount(t, store))
	})
}

func TestDeleteByIDPrefix_Ambiguous(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("abcd1111", at(6, 0), at(7, 0)))
	require.NoError(t, err)
	_, err = store.AddClosed(ctx, closedActivity("abcd2222", at(7, 30), at(8, 0)))
	require.NoError(t, err)

	_, err = store.DeleteByIDPrefix(ctx, "abcd")
	assert.ErrorIs(t, err, domain.ErrAmbiguousID)
	assert.Equal(t, 2, rowCount(t, store))
}

// ==================== Query ====================

func TestQuery(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(7, 0), at(8, 0)))
	require.NoError(t, err)
	b := closedActivity("bbbb0002", at(8, 30), at(9, 0))
	b.Project = "tempo"
	_, err = store.AddClosed(ctx, b)
	require.NoError(t, err)
	_, err = store.StartOpen(ctx, openActivity("cccc0003", at(11, 0)))
	require.NoError(t, err)

	t.Run("orders by start descending and excludes the open row", func(t *testing.T) {
		got, err := store.Query(ctx, domain.QueryFilter{Since: at(0, 0), Until: testNow})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "bbbb0002", got[0].ID)
		assert.Equal(t, "aaaa0001", got[1].ID)
	})

	t.Run("window clips on both edges", func(t *testing.T) {
		got, err := store.Query(ctx, domain.QueryFilter{Since: at(8, 0), Until: testNow})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "bbbb0002", got[0].ID)

		got, err = store.Query(ctx, domain.QueryFilter{Since: at(0, 0), Until: at(8, 0)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "aaaa0001", got[0].ID)
	})

	t.Run("project filter matches exactly", func(t *testing.T) {
		got, err := store.Query(ctx, domain.QueryFilter{Since: at(0, 0), Until: testNow, Project: "tempo"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "bbbb0002", got[0].ID)

		got, err = store.Query(ctx, domain.QueryFilter{Since: at(0, 0), Until: testNow, Project: "other"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("limit caps the listing", func(t *testing.T) {
		got, err := store.Query(ctx, domain.QueryFilter{Since: at(0, 0), Until: testNow, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "bbbb0002", got[0].ID)
	})
}

// ==================== Bulk Import ====================

func TestImportClosed_Succeeds(t *testing.T) {
	store := setupTestStore(t)

	ids, err := store.ImportClosed(context.Background(), []domain.Activity{
		closedActivity("aaaa0001", at(7, 0), at(8, 0)),
		closedActivity("bbbb0002", at(8, 30), at(9, 0)),
		closedActivity("cccc0003", at(9, 30), at(10, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa0001", "bbbb0002", "cccc0003"}, ids)
	assert.Equal(t, 3, rowCount(t, store))
}

func TestImportClosed_BatchConflictPersistsNothing(t *testing.T) {
	store := setupTestStore(t)

	// The third record overlaps the first: zero records survive, not two.
	_, err := store.ImportClosed(context.Background(), []domain.Activity{
		closedActivity("aaaa0001", at(7, 0), at(8, 0)),
		closedActivity("bbbb0002", at(8, 30), at(9, 0)),
		closedActivity("cccc0003", at(7, 30), at(7, 45)),
	})
	assert.ErrorIs(t, err, domain.ErrOverlap)
	assert.Equal(t, 0, rowCount(t, store))
}

func TestImportClosed_ConflictWithExistingPersistsNothing(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddClosed(ctx, closedActivity("aaaa0001", at(7, 0), at(8, 0)))
	require.NoError(t, err)

	_, err = store.ImportClosed(ctx, []domain.Activity{
		closedActivity("bbbb0002", at(9, 0), at(10, 0)),
		closedActivity("cccc0003", at(7, 30), at(8, 30)),
	})
	assert.ErrorIs(t, err, domain.ErrOverlap)
	assert.Equal(t, 1, rowCount(t, store))
}
