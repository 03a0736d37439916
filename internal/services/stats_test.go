package services

import (
	"testing"
	"time"

	types "github.com/codeforma/codeforma-backend/internal/domain"
)

func TestEmptyWeek_CoversSevenDays(t *testing.T) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	wb := emptyWeek(start)

	if len(wb.days) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(wb.days))
	}
	if wb.days[0].Date != "2026-08-24" {
		t.Fatalf("expected the window to open at 2026-08-24, got %s", wb.days[0].Date)
	}
	if wb.days[6].Date != "2026-08-30" {
		t.Fatalf("expected the window to close at 2026-08-30, got %s", wb.days[6].Date)
	}
	for i, day := range wb.days {
		if day.LessonsCompleted != 0 || day.WatchSeconds != 0 {
			t.Fatalf("bucket %d not zeroed: %+v", i, day)
		}
		if wb.index[day.Date] != i {
			t.Fatalf("index for %s points at %d, want %d", day.Date, wb.index[day.Date], i)
		}
	}
}

func TestBucketCompletions_KeysByUTCDay(t *testing.T) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	wb := emptyWeek(start)

	// 2026-08-25 20:00 UTC reads as 2026-08-26 in a +10:00 session zone.
	// The bucket must follow the UTC day, not the zone the driver picked.
	ahead := time.FixedZone("ahead", 10*3600)
	boundary := time.Date(2026, 8, 26, 6, 0, 0, 0, ahead)
	outside := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	completed := bucketCompletions(wb, []*types.LessonProgress{
		{CompletedAt: &boundary, WatchTimeSeconds: 120},
		{CompletedAt: &outside, WatchTimeSeconds: 600},
		{CompletedAt: nil},
	})

	if completed != 1 {
		t.Fatalf("expected 1 completion inside the window, got %d", completed)
	}
	if wb.days[1].LessonsCompleted != 1 || wb.days[1].WatchSeconds != 120 {
		t.Fatalf("expected the completion in the 2026-08-25 bucket, got %+v", wb.days)
	}
	if wb.days[2].LessonsCompleted != 0 {
		t.Fatalf("completion leaked into the zone-local day: %+v", wb.days[2])
	}
}
