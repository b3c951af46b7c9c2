package services

import (
	"context"
	"testing"
	"time"

	"carteira/internal/ledger"
	"carteira/internal/testutil"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("totals_per_class", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.ID, ledger.Stock, "PETR4", "10", "1000")
		testutil.CreateTestHolding(t, db, user.ID, ledger.Stock, "VALE3", "1", "60.5")
		testutil.CreateTestHolding(t, db, user.ID, ledger.Crypto, "BTC", "0.1", "30000")
		testutil.CreateTestHolding(t, db, other.ID, ledger.Stock, "ITUB4", "1", "999")
		testutil.CreateTestFixedIncome(t, db, user.ID, "Nubank", "500")

		dash, err := svc.GetDashboard(ctx, UserContext{UserID: user.ID}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		if !dash.Total.Equal(dec("31560.5")) {
			t.Errorf("expected total 31560.5, got %s", dash.Total)
		}
		if len(dash.Classes) != 4 {
			t.Fatalf("expected 4 class summaries, got %d", len(dash.Classes))
		}
		stocks := dash.Classes[0]
		if stocks.Class != ledger.Stock || stocks.Count != 2 || !stocks.Total.Equal(dec("1060.5")) {
			t.Errorf("unexpected stock summary %+v", stocks)
		}
		fixed := dash.Classes[3]
		if fixed.Class != ledger.FixedIncome || fixed.Count != 1 || !fixed.Total.Equal(dec("500")) {
			t.Errorf("unexpected fixed income summary %+v", fixed)
		}
		if len(dash.RecentRecords) != 0 {
			t.Errorf("expected no records, got %d", len(dash.RecentRecords))
		}
	})

	t.Run("recent_records_limited", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)

		user := testutil.CreateTestUser(t, db)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 7 {
			testutil.CreateTestRecord(t, db, user.ID, ledger.KindBuy, "PETR4", "1", base.AddDate(0, 0, i))
		}

		dash, err := svc.GetDashboard(ctx, UserContext{UserID: user.ID}, base.AddDate(0, 1, 0))
		testutil.AssertNoError(t, err)
		if len(dash.RecentRecords) != recentRecordsLimit {
			t.Fatalf("expected %d records, got %d", recentRecordsLimit, len(dash.RecentRecords))
		}
		if !dash.RecentRecords[0].Timestamp.Equal(base.AddDate(0, 0, 6)) {
			t.Errorf("expected newest record first, got %s", dash.RecentRecords[0].Timestamp)
		}
	})

	t.Run("monthly_evolution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestRecord(t, db, user.ID, ledger.KindBuy, "OLD", "999", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestRecord(t, db, user.ID, ledger.KindBuy, "PETR4", "1000", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestRecord(t, db, user.ID, ledger.KindBuy, "VALE3", "500", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestRecord(t, db, user.ID, ledger.KindSell, "PETR4", "300", time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))

		now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		dash, err := svc.GetDashboard(ctx, UserContext{UserID: user.ID}, now)
		testutil.AssertNoError(t, err)

		if dash.Year != 2024 || len(dash.Evolution) != 12 {
			t.Fatalf("expected 12 points for 2024, got %d for %d", len(dash.Evolution), dash.Year)
		}
		for _, m := range []int{0, 1} {
			if dash.Evolution[m].Value != nil {
				t.Errorf("expected no value before first movement in month %d", m+1)
			}
		}
		want := map[int]string{2: "1500", 3: "1500", 4: "1200", 5: "1200"}
		for m, v := range want {
			p := dash.Evolution[m]
			if p.Value == nil || !p.Value.Equal(dec(v)) {
				t.Errorf("month %d: expected %s, got %v", m+1, v, p.Value)
			}
		}
		if dash.Evolution[6].Value != nil {
			t.Error("expected no value for months after now")
		}
	})
}
