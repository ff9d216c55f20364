package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"edoparser/internal"
	"edoparser/internal/connectors"
)

// fakeSheet serves the three values endpoints over an in-memory grid.
type fakeSheet struct {
	t    *testing.T
	mu   sync.Mutex
	grid [][]string
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	const prefix = "/v4/spreadsheets/sid/values/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		f.t.Errorf("unexpected path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rng := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(valueRange{Range: rng, Values: f.grid})
	case r.Method == http.MethodPost && strings.HasSuffix(rng, ":append"):
		var body valueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.grid = append(f.grid, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		var body valueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		n, err := strconv.Atoi(rng[strings.LastIndex(rng, "!A")+2:])
		if err != nil {
			f.t.Errorf("range %q", rng)
			return
		}
		for len(f.grid) < n {
			f.grid = append(f.grid, nil)
		}
		f.grid[n-1] = body.Values[0]
		_, _ = w.Write([]byte(`{}`))
	default:
		f.t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	}
}

func newTestStore(t *testing.T) (*Store, *fakeSheet) {
	fake := &fakeSheet{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	store, err := New(context.Background(), "sid", "EDO", option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	return store, fake
}

func TestInsertWritesHeaderOnce(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	row := internal.CanonicalRecord{ShippingLine: "ANL", ContainerNumber: "CONU1234567", PIN: "AB12"}.Raw()
	if err := store.Insert(ctx, []internal.Row{internal.Row(row)}); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, []internal.Row{{internal.FieldContainerNumber: "TGHU1234567"}}); err != nil {
		t.Fatal(err)
	}
	if len(fake.grid) != 3 {
		t.Fatalf("grid=%v", fake.grid)
	}
	if strings.Join(fake.grid[0], ",") != strings.Join(internal.CanonicalColumns, ",") {
		t.Fatalf("header=%v", fake.grid[0])
	}
	if fake.grid[1][1] != "CONU1234567" || fake.grid[1][2] != "AB12" {
		t.Fatalf("row=%v", fake.grid[1])
	}
}

func TestQueryAndUpdate(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()
	fake.grid = [][]string{
		internal.CanonicalColumns,
		{"ANL", "CONU1234567", "OLD1", "Botany Park 1"},
		{"ZIM", "ZIMU1234567", "ZZ99"},
	}

	rows, err := store.Query(ctx, "container number", " CONU1234567 ")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][internal.FieldPIN] != "OLD1" || rows[0][internal.FieldPreviewLink] != "" {
		t.Fatalf("rows=%v", rows)
	}

	err = store.Update(ctx, internal.FieldContainerNumber, "CONU1234567", internal.Row{internal.FieldPIN: "NEW2"})
	if err != nil {
		t.Fatal(err)
	}
	if fake.grid[1][2] != "NEW2" || fake.grid[1][3] != "Botany Park 1" {
		t.Fatalf("row=%v", fake.grid[1])
	}

	err = store.Update(ctx, internal.FieldContainerNumber, "MISSING", internal.Row{})
	if !errors.Is(err, connectors.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestUpsert(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()
	row := internal.Row{internal.FieldContainerNumber: "CONU1234567", internal.FieldPIN: "A1"}
	if err := connectors.Upsert(ctx, store, internal.FieldContainerNumber, row); err != nil {
		t.Fatal(err)
	}
	row[internal.FieldPIN] = "B2"
	if err := connectors.Upsert(ctx, store, internal.FieldContainerNumber, row); err != nil {
		t.Fatal(err)
	}
	if len(fake.grid) != 2 || fake.grid[1][2] != "B2" {
		t.Fatalf("grid=%v", fake.grid)
	}
}
