package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestStateDefaultsAndMutators(t *testing.T) {
	s := New()
	if s.Logged() || s.LoginCount() != 0 {
		t.Fatalf("defaults = %+v", s)
	}
	if _, ok := s.LastLogin(); ok {
		t.Fatal("fresh state has a last login")
	}

	at := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s.SetLogged(true)
	s.SetLastLogin(at)
	s.IncrementLoginCount()
	s.IncrementLoginCount()

	got, ok := s.LastLogin()
	if !s.Logged() || s.LoginCount() != 2 || !ok || !got.Equal(at) {
		t.Errorf("after login = logged %v count %d last %v", s.Logged(), s.LoginCount(), got)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	back := New()
	if err := json.Unmarshal(b, back); err != nil {
		t.Fatal(err)
	}
	if back.LoginCount() != 2 || !back.Logged() {
		t.Errorf("decoded = %s", b)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	s := New()
	s.IncrementLoginCount()
	if err := m.Save(ctx, "abc", s, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Load(ctx, "abc")
	if err != nil || !ok || got.LoginCount() != 1 {
		t.Fatalf("Load = %v, %v, %v", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Load(ctx, "abc"); ok {
		t.Error("expired session loaded")
	}
}

func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func login(s *State) {
	s.SetLogged(true)
	s.SetLastLogin(time.Now())
	s.IncrementLoginCount()
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Minute, false)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	cur, err := m.Current(ctx, req)
	if err != nil || cur.Logged() {
		t.Fatalf("Current without cookie = %+v, %v", cur, err)
	}

	rec := httptest.NewRecorder()
	if _, err := m.Update(ctx, rec, httptest.NewRequest(http.MethodPost, "/", nil), login); err != nil {
		t.Fatal(err)
	}
	cookie := cookieFrom(t, rec)
	if len(cookie.Value) != 2*idLength || !cookie.HttpOnly {
		t.Errorf("cookie = %+v", cookie)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(cookie)
	s, err := m.Update(ctx, httptest.NewRecorder(), req, login)
	if err != nil {
		t.Fatal(err)
	}
	if s.LoginCount() != 2 {
		t.Errorf("login count = %d, want 2", s.LoginCount())
	}

	rec = httptest.NewRecorder()
	if err := m.Destroy(ctx, rec, req); err != nil {
		t.Fatal(err)
	}
	if c := cookieFrom(t, rec); c.MaxAge >= 0 {
		t.Errorf("cookie not expired: %+v", c)
	}
	cur, _ = m.Current(ctx, req)
	if cur.LoginCount() != 0 {
		t.Errorf("state survived destroy: %d", cur.LoginCount())
	}
}

func TestManagerSerializesSameSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Minute, false)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	if _, err := m.Update(ctx, rec, httptest.NewRequest(http.MethodPost, "/", nil), func(*State) {}); err != nil {
		t.Fatal(err)
	}
	cookie := cookieFrom(t, rec)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.AddCookie(cookie)
			if _, err := m.Update(ctx, httptest.NewRecorder(), req, login); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s, _ := m.Current(ctx, req)
	if s.LoginCount() != n {
		t.Errorf("login count = %d, want %d", s.LoginCount(), n)
	}
	if len(m.locks) != 0 {
		t.Errorf("%d locks leaked", len(m.locks))
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client)
	id, _ := generateID()
	t.Cleanup(func() { store.Delete(ctx, id) })

	s := New()
	login(s)
	if err := store.Save(ctx, id, s, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Load(ctx, id)
	if err != nil || !ok || got.LoginCount() != 1 || !got.Logged() {
		t.Fatalf("Load = %v, %v, %v", got, ok, err)
	}
	if ttl := client.TTL(ctx, keyPrefix+id).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Load(ctx, id); ok {
		t.Error("loaded after delete")
	}
}
