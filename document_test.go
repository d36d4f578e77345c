package pdfrender

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryOpenAssignsSequentialIDs(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 1)

	for want := DocumentID(1); want <= 3; want++ {
		info, err := r.OpenData([]byte("doc"))
		if err != nil {
			t.Fatalf("OpenData() error = %v", err)
		}
		if info.ID != want {
			t.Errorf("OpenData() id = %d, want %d", info.ID, want)
		}
	}
	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestRegistryOpenReturnsInfo(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 3)

	got, err := r.OpenFile("any.pdf")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	want := DocumentInfo{
		ID:        1,
		PageCount: 3,
		VerMajor:  1,
		VerMinor:  7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("OpenFile() info mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryInfoMatchesOpen(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 5)

	opened, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}
	got, err := r.Info(opened.ID)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if diff := cmp.Diff(opened, got); diff != "" {
		t.Errorf("Info() mismatch with open result (-open +info):\n%s", diff)
	}
}

func TestRegistryInfoUnknown(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 1)

	if _, err := r.Info(42); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Info(42) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestRegistryIDsNeverReused(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 1)

	first, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}
	r.Close(first.ID)

	second, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("id %d was reused after close", first.ID)
	}
	if second.ID != first.ID+1 {
		t.Errorf("second id = %d, want %d", second.ID, first.ID+1)
	}

	// The stale id stays invalid.
	if _, err := r.Info(first.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Info(closed id) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestRegistryCloseIdempotent(t *testing.T) {
	r, e := newFakeRegistry(612, 792, 1)

	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	r.Close(info.ID)
	r.Close(info.ID)
	r.Close(9999)

	if got := e.docs[0].closed; got != 1 {
		t.Errorf("document closed %d times, want 1", got)
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestRegistryCloseAll(t *testing.T) {
	r, e := newFakeRegistry(612, 792, 1)

	for range 3 {
		if _, err := r.OpenData([]byte("doc")); err != nil {
			t.Fatalf("OpenData() error = %v", err)
		}
	}
	r.CloseAll()

	if got := r.Len(); got != 0 {
		t.Errorf("Len() after CloseAll = %d, want 0", got)
	}
	for i, d := range e.docs {
		if d.closed != 1 {
			t.Errorf("doc %d closed %d times, want 1", i, d.closed)
		}
	}
}

func TestRegistryPageInfo(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 2)

	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	got, err := r.PageInfo(info.ID, 2)
	if err != nil {
		t.Fatalf("PageInfo() error = %v", err)
	}
	want := PageInfo{ID: info.ID, PageNumber: 2, Width: 612, Height: 792}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PageInfo() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryPageInfoOutOfRange(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 3)

	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	tests := []struct {
		name string
		page int
	}{
		{"zero", 0},
		{"negative", -1},
		{"past end", 4},
		{"far past end", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.PageInfo(info.ID, tt.page)
			if !errors.Is(err, ErrPageOutOfRange) {
				t.Errorf("PageInfo(%d) error = %v, want ErrPageOutOfRange", tt.page, err)
			}
		})
	}
}

func TestRegistryPageInfoUnknownDoc(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 1)

	if _, err := r.PageInfo(7, 1); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("PageInfo() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestRegistryPageCountInvariant(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 4)

	opened, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	for i := range 10 {
		if _, err := r.PageInfo(opened.ID, 1+i%4); err != nil {
			t.Fatalf("PageInfo() error = %v", err)
		}
		info, err := r.Info(opened.ID)
		if err != nil {
			t.Fatalf("Info() error = %v", err)
		}
		if info.PageCount != opened.PageCount {
			t.Fatalf("PageCount drifted to %d after %d page opens, want %d",
				info.PageCount, i+1, opened.PageCount)
		}
	}
}

func TestRegistryWithPageClosesPage(t *testing.T) {
	r, _ := newFakeRegistry(612, 792, 1)

	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}

	var inside Page
	err = r.WithPage(info.ID, 1, func(p Page) error {
		inside = p
		return nil
	})
	if err != nil {
		t.Fatalf("WithPage() error = %v", err)
	}
	if inside == nil {
		t.Fatal("WithPage() never invoked fn")
	}
}

func TestRegistryUsesDefaultEngine(t *testing.T) {
	e := &fakeEngine{pageW: 100, pageH: 200, pages: 1}
	RegisterEngine("fake-default", 100, e, nil)
	t.Cleanup(func() { UnregisterEngine("fake-default") })

	r := NewRegistry()
	info, err := r.OpenData([]byte("doc"))
	if err != nil {
		t.Fatalf("OpenData() error = %v", err)
	}
	if info.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", info.PageCount)
	}
	if len(e.docs) != 1 {
		t.Errorf("default engine opened %d docs, want 1", len(e.docs))
	}
}

func TestRegistryOpenNoEngine(t *testing.T) {
	r := NewRegistry()

	_, err := r.OpenData([]byte("doc"))
	if !errors.Is(err, ErrNoEngineAvailable) {
		t.Errorf("OpenData() error = %v, want ErrNoEngineAvailable", err)
	}
}

func TestRegistryOpenEngineFailure(t *testing.T) {
	e := &fakeEngine{pageW: 612, pageH: 792, pages: 1, failOpen: true}
	r := NewRegistry(WithEngine(e))

	if _, err := r.OpenData([]byte("doc")); err == nil {
		t.Error("OpenData() expected error from failing engine")
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() after failed open = %d, want 0", got)
	}
}
