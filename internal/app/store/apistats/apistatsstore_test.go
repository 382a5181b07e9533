package apistats

import (
	"testing"
	"time"

	"github.com/dalemusser/mediasave/internal/testutil"
)

func TestTruncateToBucket(t *testing.T) {
	at := time.Date(2026, 8, 24, 14, 37, 12, 0, time.UTC)

	if got, want := TruncateToBucket(at, time.Hour), time.Date(2026, 8, 24, 14, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("TruncateToBucket(1h) = %v, want %v", got, want)
	}
	if got, want := TruncateToBucket(at, 15*time.Minute), time.Date(2026, 8, 24, 14, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("TruncateToBucket(15m) = %v, want %v", got, want)
	}
}

func TestStore_Record(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Record(ctx, StatTypeCaptureAudio, time.Hour, 120, false); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := store.Record(ctx, StatTypeCaptureAudio, time.Hour, 40, true); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := store.Record(ctx, StatTypeCaptureAudio, time.Hour, 200, false); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	now := time.Now().UTC()
	buckets, err := store.GetRange(ctx, StatTypeCaptureAudio, now.Add(-2*time.Hour), now, "1h0m0s")
	if err != nil {
		t.Fatalf("GetRange() error: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("GetRange() returned %d buckets, want 1 (all recordings fall in the current hour)", len(buckets))
	}

	b := buckets[0]
	if b.Requests != 3 {
		t.Errorf("requests = %d, want 3", b.Requests)
	}
	if b.Errors != 1 {
		t.Errorf("errors = %d, want 1", b.Errors)
	}
	if b.MinMs != 40 {
		t.Errorf("min_ms = %d, want 40", b.MinMs)
	}
	if b.MaxMs != 200 {
		t.Errorf("max_ms = %d, want 200", b.MaxMs)
	}
	if got, want := b.AvgMs(), 120.0; got != want {
		t.Errorf("AvgMs() = %v, want %v", got, want)
	}
}

func TestStore_Record_SeparatesStatTypes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Record(ctx, StatTypeCapturePhoto, time.Hour, 50, false); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := store.Record(ctx, StatTypeCaptureModes, time.Hour, 5, false); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	now := time.Now().UTC()
	photo, err := store.GetRange(ctx, StatTypeCapturePhoto, now.Add(-time.Hour), now, "")
	if err != nil {
		t.Fatalf("GetRange() error: %v", err)
	}
	if len(photo) != 1 || photo[0].Requests != 1 {
		t.Errorf("photo buckets = %+v, want one bucket with one request", photo)
	}
}

func TestStore_AggregateRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, ms := range []int64{10, 30, 50} {
		if err := store.Record(ctx, StatTypeHistoryList, 15*time.Minute, ms, ms == 50); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	now := time.Now().UTC()
	agg, err := store.AggregateRange(ctx, StatTypeHistoryList, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("AggregateRange() error: %v", err)
	}
	if agg.Requests != 3 || agg.Errors != 1 {
		t.Errorf("aggregate = %+v, want 3 requests and 1 error", agg)
	}
	if agg.MinMs != 10 || agg.MaxMs != 50 {
		t.Errorf("min/max = %d/%d, want 10/50", agg.MinMs, agg.MaxMs)
	}
	if got, want := agg.AvgMs(), 30.0; got != want {
		t.Errorf("AvgMs() = %v, want %v", got, want)
	}
	if got := agg.ErrorRate(); got < 33.3 || got > 33.4 {
		t.Errorf("ErrorRate() = %v, want about 33.3", got)
	}
}

func TestStore_AggregateRange_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	agg, err := store.AggregateRange(ctx, StatTypeCaptureVideo, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("AggregateRange() error: %v", err)
	}
	if agg.Requests != 0 || agg.AvgMs() != 0 || agg.ErrorRate() != 0 {
		t.Errorf("empty aggregate = %+v, want zero values", agg)
	}
}

func TestStore_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Record(ctx, StatTypeCaptureText, time.Hour, 20, false); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	// The current bucket is newer than a cutoff in the past.
	deleted, err := store.DeleteOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour), "")
	if err != nil {
		t.Fatalf("DeleteOlderThan() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	deleted, err = store.DeleteOlderThan(ctx, time.Now().UTC().Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("DeleteOlderThan() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
