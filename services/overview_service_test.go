package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lthoa462/homework/services"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUsageWindow(t *testing.T) {
	start, end := services.UsageWindow(time.Date(2025, 3, 2, 23, 30, 0, 0, time.UTC))

	if want := day(2025, 2, 24); !start.Equal(want) {
		t.Errorf("expected start %s, got %s", want, start)
	}
	if want := day(2025, 3, 3); !end.Equal(want) {
		t.Errorf("expected end %s, got %s", want, end)
	}
}

// TestBuildUsageByDay verifies seven consecutive days ending today, with zero
// for days that have no reports.
func TestBuildUsageByDay(t *testing.T) {
	start, _ := services.UsageWindow(time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC))
	points := services.BuildUsageByDay(start, map[time.Time]int64{
		day(2025, 9, 10): 2,
		day(2025, 9, 16): 1,
		day(2025, 9, 9):  5, // outside the window
	})

	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	want := []int64{2, 0, 0, 0, 0, 0, 1}
	for i, p := range points {
		if wantDay := day(2025, 9, 10+i); !p.Date.Equal(wantDay) {
			t.Errorf("point %d: expected %s, got %s", i, wantDay, p.Date)
		}
		if p.Count != want[i] {
			t.Errorf("point %d: expected count %d, got %d", i, want[i], p.Count)
		}
	}
}

func TestBuildUsageByDay_Empty(t *testing.T) {
	points := services.BuildUsageByDay(day(2025, 1, 1), nil)
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Count != 0 {
			t.Errorf("expected zero count, got %+v", p)
		}
	}
}

func TestOverviewService_Overview(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := services.NewUserService(db)
	reports := services.NewReportService(db)

	for i, status := range []string{"active", "active", "inactive", "active", "active", "active"} {
		_, err := users.Create(ctx, services.CreateUserInput{
			Username: fmt.Sprintf("user%d", i),
			Password: "secret1",
			Status:   status,
		})
		if err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}

	create := func(date string, important bool, subjects ...string) {
		t.Helper()
		_, err := reports.CreateReport(ctx, services.CreateReportInput{
			ReportDate: date, IsImportant: important, CreatedBy: 1, Entries: entries(subjects...),
		})
		if err != nil {
			t.Fatalf("CreateReport(%s): %v", date, err)
		}
	}
	create("2025-09-16", false, "Toán", "Văn")
	create("2025-09-16", true, "Toán")
	create("2025-09-12", false, "Anh")
	create("2025-09-01", true, "Toán", "Sử") // outside the window, still important

	s := services.NewOverviewService(db).WithClock(func() time.Time {
		return time.Date(2025, 9, 16, 15, 0, 0, 0, time.UTC)
	})
	out, err := s.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	totals := out.Totals
	if totals.TotalUsers != 6 || totals.ActiveUsers != 5 || totals.InactiveUsers != 1 {
		t.Errorf("unexpected user totals: %+v", totals)
	}
	if totals.ReportsThisWeek != 3 {
		t.Errorf("expected 3 reports this week, got %d", totals.ReportsThisWeek)
	}
	if totals.ImportantReports != 2 {
		t.Errorf("expected 2 important reports (all time), got %d", totals.ImportantReports)
	}

	if len(out.UsageByDay) != 7 {
		t.Fatalf("expected 7 usage points, got %d", len(out.UsageByDay))
	}
	last := out.UsageByDay[6]
	if !last.Date.Equal(day(2025, 9, 16)) || last.Count != 2 {
		t.Errorf("expected today with 2 reports, got %+v", last)
	}
	if p := out.UsageByDay[2]; !p.Date.Equal(day(2025, 9, 12)) || p.Count != 1 {
		t.Errorf("expected 2025-09-12 with 1 report, got %+v", p)
	}

	if len(out.RecentUsers) != 5 {
		t.Errorf("expected 5 recent users, got %d", len(out.RecentUsers))
	} else if out.RecentUsers[0].Username != "user5" {
		t.Errorf("expected newest user first, got %s", out.RecentUsers[0].Username)
	}

	wantTop := []services.SubjectStat{
		{Subject: "Toán", Count: 3},
		{Subject: "Anh", Count: 1},
		{Subject: "Sử", Count: 1},
		{Subject: "Văn", Count: 1},
	}
	if len(out.TopSubjects) != len(wantTop) {
		t.Fatalf("expected %d subjects, got %+v", len(wantTop), out.TopSubjects)
	}
	for i := range wantTop {
		if out.TopSubjects[i] != wantTop[i] {
			t.Errorf("subject %d: expected %+v, got %+v", i, wantTop[i], out.TopSubjects[i])
		}
	}
}
