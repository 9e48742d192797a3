package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func mustItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	i := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), i))
	return i
}

func mustBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
	t.Helper()
	ctx := context.Background()
	b := &models.Booking{Start: start, End: end, ItemID: itemID, BookerID: bookerID, Status: models.StatusWaiting}
	require.NoError(t, db.CreateBooking(ctx, b))
	if status != models.StatusWaiting {
		require.NoError(t, db.DecideBooking(ctx, b.ID, status))
		b.Status = status
	}
	return b
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		user := mustUser(t, db, "alice", "alice@example.com")
		assert.NotZero(t, user.ID)

		got, err := db.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		got, err := db.GetUserByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mustUser(t, db, "bob", "bob@example.com")
		err := db.CreateUser(ctx, &models.User{Name: "bobby", Email: "bob@example.com"})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("UpdateToTakenEmail", func(t *testing.T) {
		carol := mustUser(t, db, "carol", "carol@example.com")
		carol.Email = "bob@example.com"
		err := db.UpdateUser(ctx, carol)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("Delete", func(t *testing.T) {
		dave := mustUser(t, db, "dave", "dave@example.com")
		require.NoError(t, db.DeleteUser(ctx, dave.ID))

		got, err := db.GetUserByID(ctx, dave.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, db, "owner", "owner@example.com")

	t.Run("CreateAndGet", func(t *testing.T) {
		item := mustItem(t, db, owner.ID, "drill", true)
		got, err := db.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "drill", got.Name)
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.Zero(t, got.RequestID)
	})

	t.Run("Update", func(t *testing.T) {
		item := mustItem(t, db, owner.ID, "saw", true)
		item.Available = false
		item.Description = "a sharp saw"
		require.NoError(t, db.UpdateItem(ctx, item))

		got, err := db.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, "a sharp saw", got.Description)
	})

	t.Run("SearchMatchesNameAndDescriptionCaseInsensitive", func(t *testing.T) {
		mustItem(t, db, owner.ID, "Electric HAMMER", true)
		hidden := mustItem(t, db, owner.ID, "hammer stand", false)

		got, err := db.SearchItems(ctx, "hAmMeR", models.Page{Index: 0, Size: 10})
		require.NoError(t, err)
		names := make([]string, 0, len(got))
		for _, i := range got {
			names = append(names, i.Name)
		}
		assert.Contains(t, names, "Electric HAMMER")
		// Unavailable items never appear in search results.
		assert.NotContains(t, names, hidden.Name)
	})

	t.Run("ByOwnerPagination", func(t *testing.T) {
		other := mustUser(t, db, "other", "other@example.com")
		for i := 0; i < 3; i++ {
			mustItem(t, db, other.ID, "thing", true)
		}

		page0, err := db.GetItemsByOwner(ctx, other.ID, models.Page{Index: 0, Size: 2})
		require.NoError(t, err)
		assert.Len(t, page0, 2)

		page1, err := db.GetItemsByOwner(ctx, other.ID, models.Page{Index: 1, Size: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 1)
	})

	t.Run("ByRequestIDs", func(t *testing.T) {
		req := &models.ItemRequest{Description: "need a ladder", RequestorID: owner.ID, Created: time.Now()}
		require.NoError(t, db.CreateRequest(ctx, req))

		item := &models.Item{Name: "ladder", Description: "tall", Available: true, OwnerID: owner.ID, RequestID: req.ID}
		require.NoError(t, db.CreateItem(ctx, item))

		got, err := db.GetItemsByRequestIDs(ctx, []int64{req.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, req.ID, got[0].RequestID)

		empty, err := db.GetItemsByRequestIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestBookings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	owner := mustUser(t, db, "owner", "owner@example.com")
	booker := mustUser(t, db, "booker", "booker@example.com")
	item := mustItem(t, db, owner.ID, "drill", true)

	t.Run("CreateFillsJoinFields", func(t *testing.T) {
		b := mustBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

		got, err := db.GetBookingByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "drill", got.ItemName)
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.Equal(t, models.StatusWaiting, got.Status)
	})

	t.Run("CreateOnUnavailableItem", func(t *testing.T) {
		off := mustItem(t, db, owner.ID, "broken drill", false)
		err := db.CreateBooking(ctx, &models.Booking{
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: off.ID, BookerID: booker.ID, Status: models.StatusWaiting,
		})
		assert.True(t, apperr.IsBookingStatus(err))
	})

	t.Run("CreateOnMissingItem", func(t *testing.T) {
		err := db.CreateBooking(ctx, &models.Booking{
			Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: 9999, BookerID: booker.ID, Status: models.StatusWaiting,
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("DecideIsSingleShot", func(t *testing.T) {
		b := mustBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

		require.NoError(t, db.DecideBooking(ctx, b.ID, models.StatusApproved))

		err := db.DecideBooking(ctx, b.ID, models.StatusRejected)
		assert.True(t, apperr.IsBookingStatus(err))
		assert.Contains(t, err.Error(), "already APPROVED")

		got, err := db.GetBookingByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
	})

	t.Run("DecideMissingBooking", func(t *testing.T) {
		err := db.DecideBooking(ctx, 9999, models.StatusApproved)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("ListFilters", func(t *testing.T) {
		db := newTestDB(t)
		owner := mustUser(t, db, "owner", "owner@example.com")
		booker := mustUser(t, db, "booker", "booker@example.com")
		item := mustItem(t, db, owner.ID, "drill", true)
		page := models.Page{Index: 0, Size: 10}

		past := mustBooking(t, db, item.ID, booker.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
		current := mustBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
		future := mustBooking(t, db, item.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusWaiting)
		rejected := mustBooking(t, db, item.ID, booker.ID, now.Add(4*time.Hour), now.Add(5*time.Hour), models.StatusRejected)

		ids := func(bs []*models.Booking) []int64 {
			out := make([]int64, 0, len(bs))
			for _, b := range bs {
				out = append(out, b.ID)
			}
			return out
		}

		all, err := db.ListByBooker(ctx, booker.ID, models.FilterAll, now, page)
		require.NoError(t, err)
		// Sorted by start descending.
		assert.Equal(t, []int64{rejected.ID, future.ID, current.ID, past.ID}, ids(all))

		got, err := db.ListByBooker(ctx, booker.ID, models.FilterCurrent, now, page)
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID}, ids(got))

		got, err = db.ListByBooker(ctx, booker.ID, models.FilterPast, now, page)
		require.NoError(t, err)
		assert.Equal(t, []int64{past.ID}, ids(got))

		got, err = db.ListByBooker(ctx, booker.ID, models.FilterFuture, now, page)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, future.ID}, ids(got))

		got, err = db.ListByBooker(ctx, booker.ID, models.FilterWaiting, now, page)
		require.NoError(t, err)
		assert.Equal(t, []int64{future.ID}, ids(got))

		got, err = db.ListByOwner(ctx, owner.ID, models.FilterRejected, now, page)
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID}, ids(got))

		// The owner listing covers all the owner's items, the booker none.
		got, err = db.ListByOwner(ctx, booker.ID, models.FilterAll, now, page)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ApprovedWindows", func(t *testing.T) {
		db := newTestDB(t)
		owner := mustUser(t, db, "owner", "owner@example.com")
		booker := mustUser(t, db, "booker", "booker@example.com")
		item := mustItem(t, db, owner.ID, "drill", true)

		started := mustBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
		atNow := mustBooking(t, db, item.ID, booker.ID, now, now.Add(time.Hour), models.StatusApproved)
		future := mustBooking(t, db, item.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusApproved)
		mustBooking(t, db, item.ID, booker.ID, now.Add(4*time.Hour), now.Add(5*time.Hour), models.StatusWaiting)

		got, err := db.ApprovedStarted(ctx, []int64{item.ID}, now)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// start == now belongs to the started window, not the future one.
		assert.ElementsMatch(t, []int64{started.ID, atNow.ID}, []int64{got[0].ID, got[1].ID})

		got, err = db.ApprovedFuture(ctx, []int64{item.ID}, now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)

		empty, err := db.ApprovedStarted(ctx, nil, now)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("HasFinishedBooking", func(t *testing.T) {
		db := newTestDB(t)
		owner := mustUser(t, db, "owner", "owner@example.com")
		booker := mustUser(t, db, "booker", "booker@example.com")
		stranger := mustUser(t, db, "stranger", "stranger@example.com")
		item := mustItem(t, db, owner.ID, "drill", true)

		// Ended but only WAITING: does not count.
		mustBooking(t, db, item.ID, stranger.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusWaiting)
		// Approved but still running: does not count.
		mustBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)

		ok, err := db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = db.HasFinishedBooking(ctx, item.ID, stranger.ID, now)
		require.NoError(t, err)
		assert.False(t, ok)

		mustBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour), models.StatusApproved)

		ok, err = db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, db, "owner", "owner@example.com")
	author := mustUser(t, db, "author", "author@example.com")
	item := mustItem(t, db, owner.ID, "drill", true)
	other := mustItem(t, db, owner.ID, "saw", true)

	comment := &models.Comment{Text: "works great", ItemID: item.ID, AuthorID: author.ID, Created: time.Now()}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)

	t.Run("ByItemIDIncludesAuthorName", func(t *testing.T) {
		got, err := db.GetCommentsByItemID(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "works great", got[0].Text)
		assert.Equal(t, "author", got[0].AuthorName)
	})

	t.Run("ByItemIDs", func(t *testing.T) {
		got, err := db.GetCommentsByItemIDs(ctx, []int64{item.ID, other.ID})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		empty, err := db.GetCommentsByItemIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestRequests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	requestor := mustUser(t, db, "requestor", "requestor@example.com")
	other := mustUser(t, db, "other", "other@example.com")
	page := models.Page{Index: 0, Size: 10}

	first := &models.ItemRequest{Description: "need a drill", RequestorID: requestor.ID, Created: time.Now().Add(-time.Hour)}
	require.NoError(t, db.CreateRequest(ctx, first))
	second := &models.ItemRequest{Description: "need a saw", RequestorID: other.ID, Created: time.Now()}
	require.NoError(t, db.CreateRequest(ctx, second))

	t.Run("ByRequestor", func(t *testing.T) {
		got, err := db.GetRequestsByRequestor(ctx, requestor.ID, page)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)
	})

	t.Run("ExcludingRequestor", func(t *testing.T) {
		got, err := db.GetRequestsExcludingRequestor(ctx, requestor.ID, page)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		got, err := db.GetRequestByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestAuditLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertAuditRecord(ctx, "booking_created", []byte(`{"booking_id":1}`)))
	require.NoError(t, db.InsertAuditRecord(ctx, "booking_created", []byte(`{"booking_id":2}`)))
	require.NoError(t, db.InsertAuditRecord(ctx, "comment_created", []byte(`{"comment_id":3}`)))

	records, err := db.GetAuditRecords(ctx, "booking_created", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Contains(t, records[0].Payload, `"booking_id":2`)
}
