package repository

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func mustSQL(t *testing.T, q sqlizer) (string, []interface{}) {
	t.Helper()
	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	return sql, args
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(sql, p) {
			t.Errorf("query %q does not contain %q", sql, p)
		}
	}
}

func TestSearchActiveQuery(t *testing.T) {
	t.Run("with destination", func(t *testing.T) {
		sql, args := mustSQL(t, searchActiveQuery("goa"))
		assertContains(t, sql, "FROM hotels", "status = $1", "city ILIKE $2", "ORDER BY name ASC")
		if len(args) != 2 || args[1] != "%goa%" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("without destination", func(t *testing.T) {
		sql, args := mustSQL(t, searchActiveQuery(""))
		if strings.Contains(sql, "ILIKE") || len(args) != 1 {
			t.Errorf("unexpected filter: %q %v", sql, args)
		}
	})
}

func TestListForUserQuery(t *testing.T) {
	sql, args := mustSQL(t, listForUserQuery(uuid.New(), models.ProfileStatuses))
	assertContains(t, sql,
		"FROM bookings b",
		"LEFT JOIN hotels h ON h.id = b.hotel_id",
		"b.status IN ($1,$2)",
		"b.user_id = $3",
		"ORDER BY b.created_at DESC",
	)
	if len(args) != 3 {
		t.Errorf("args = %v", args)
	}
}

func TestPricingQueries(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("save current", func(t *testing.T) {
		res := &pricing.Result{FinalPrice: 15600, ValidFrom: now, ValidUntil: now.Add(time.Hour)}
		sql, args := mustSQL(t, saveCurrentQuery(id, res, now))
		assertContains(t, sql, "UPDATE dynamic_pricing SET current_pricing = $1", "final_price = $2", "WHERE id = $6")
		if args[1] != 15600.0 {
			t.Errorf("final price arg = %v", args[1])
		}
	})

	t.Run("update demand", func(t *testing.T) {
		sql, _ := mustSQL(t, updateDemandQuery(id, pricing.DemandFactors{OccupancyRate: 0.9}, now))
		assertContains(t, sql, "context = jsonb_set(context, '{demand_factors}', $1::jsonb)", "current_pricing = $2")
	})

	t.Run("date range", func(t *testing.T) {
		sql, args := mustSQL(t, dateRangeQuery(id, "Deluxe", now, now.Add(48*time.Hour)))
		assertContains(t, sql, "valid_from <= $4", "valid_until >= $5", "ORDER BY valid_from ASC")
		if len(args) != 5 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("competitors", func(t *testing.T) {
		sql, args := mustSQL(t, competitorQuery("mumbai", "Suite"))
		assertContains(t, sql, "JOIN hotels h ON h.id = p.hotel_id", "h.city ILIKE $1", "AVG(p.final_price)")
		if args[0] != "%mumbai%" {
			t.Errorf("location arg = %v", args[0])
		}
	})
}

func TestSessionQueries(t *testing.T) {
	t.Run("recent with interactions", func(t *testing.T) {
		sql, _ := mustSQL(t, recentWithInteractionsQuery("u1", 10))
		assertContains(t, sql, "jsonb_array_length(user_interactions) > 0", "ORDER BY created_at DESC", "LIMIT 10")
	})

	t.Run("lock", func(t *testing.T) {
		sql, _ := mustSQL(t, lockSessionQuery(uuid.New()))
		if !strings.HasSuffix(sql, "FOR UPDATE") {
			t.Errorf("query %q is not locking", sql)
		}
	})

	t.Run("since with destination", func(t *testing.T) {
		sql, args := mustSQL(t, sinceQuery(time.Now(), "goa"))
		assertContains(t, sql, "created_at >= $1", "destination ILIKE $2")
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("analytics filters", func(t *testing.T) {
		from, to := time.Now().Add(-time.Hour), time.Now()
		tests := []struct {
			name     string
			filter   SessionFilter
			wantArgs int
		}{
			{"none", SessionFilter{}, 0},
			{"only one bound is ignored", SessionFilter{From: &from}, 0},
			{"date range", SessionFilter{From: &from, To: &to}, 2},
			{"range and user", SessionFilter{From: &from, To: &to, UserID: "u1"}, 3},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, args := mustSQL(t, analyticsQuery(tt.filter))
				if len(args) != tt.wantArgs {
					t.Errorf("args = %v, want %d", args, tt.wantArgs)
				}
			})
		}
	})
}

func TestNotFound(t *testing.T) {
	if !errors.Is(notFound(pgx.ErrNoRows), ErrNotFound) {
		t.Error("ErrNoRows not translated")
	}
	other := errors.New("boom")
	if notFound(other) != other {
		t.Error("other errors must pass through")
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"goa", "%goa%"},
		{"_", `%\_%`},
		{"100%", `%100\%%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := containsPattern(tt.in); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestILikeFiltersEscapeWildcards(t *testing.T) {
	tests := []struct {
		name string
		q    sqlizer
		idx  int
	}{
		{"hotel search", searchActiveQuery("_"), 1},
		{"competitors", competitorQuery("_", "deluxe"), 0},
		{"sessions since", sinceQuery(time.Now(), "_"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := mustSQL(t, tt.q)
			if args[tt.idx] != `%\_%` {
				t.Errorf("pattern arg = %v, want %q", args[tt.idx], `%\_%`)
			}
		})
	}
}
