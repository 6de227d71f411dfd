package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestHealthChecker_Liveness(t *testing.T) {
	checker := NewHealthChecker(nil, nil)

	req := httptest.NewRequest("GET", "/health/live", nil)
	w := httptest.NewRecorder()
	checker.Liveness(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["status"] != StatusHealthy {
		t.Errorf("expected healthy, got %v", body["status"])
	}
}

func TestHealthChecker_NoDependencies(t *testing.T) {
	checker := NewHealthChecker(nil, nil)
	status := checker.Check(context.Background())

	if status.Status != StatusHealthy {
		t.Errorf("expected healthy with no dependencies, got %s", status.Status)
	}
	if len(status.Dependencies) != 0 {
		t.Errorf("expected no dependency entries, got %d", len(status.Dependencies))
	}
}

func TestHealthChecker_Database(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock.New failed: %v", err)
		}
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		checker := NewHealthChecker(db, nil)
		status := checker.Check(context.Background())

		if status.Status != StatusHealthy {
			t.Errorf("expected healthy, got %s (%+v)", status.Status, status.Dependencies)
		}
	})

	t.Run("unreachable database is unhealthy", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock.New failed: %v", err)
		}
		defer db.Close()

		mock.ExpectPing().WillReturnError(context.DeadlineExceeded)

		checker := NewHealthChecker(db, nil)
		status := checker.Check(context.Background())

		if status.Status != StatusUnhealthy {
			t.Errorf("expected unhealthy, got %s", status.Status)
		}
	})
}

func TestHealthChecker_RedisDegradesOnly(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 500 * time.Millisecond,
		ReadTimeout: 500 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	checker := NewHealthChecker(nil, client)

	status := checker.Check(context.Background())
	if status.Status != StatusHealthy {
		t.Fatalf("expected healthy with redis up, got %s", status.Status)
	}

	// Redis loss degrades readiness but must not fail it
	mr.Close()
	status = checker.Check(context.Background())
	if status.Status != StatusDegraded {
		t.Errorf("expected degraded with redis down, got %s", status.Status)
	}

	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()
	checker.Readiness(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("degraded readiness should still return 200, got %d", w.Code)
	}
}

func TestRegisterHealthRoutes(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHealthRoutes(mux, NewHealthChecker(nil, nil))

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
