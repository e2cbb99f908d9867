package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/storage/memory"
)

func TestOpenSnapshot_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	repo, _, err := memory.OpenSnapshot(path)
	if err != nil {
		t.Fatalf("OpenSnapshot failed: %v", err)
	}
	found, err := repo.GetOrderByID(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.IsPresent() {
		t.Fatal("expected empty repository")
	}
}

func TestOpenSnapshot_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	order := newOrder()

	repo, flush, err := memory.OpenSnapshot(path)
	if err != nil {
		t.Fatalf("OpenSnapshot failed: %v", err)
	}
	if _, err := repo.SaveOrder(order); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := repo.SaveOrder(domain.Order{ID: 2, Quantity: -1, UnitPrice: 5}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	reopened, _, err := memory.OpenSnapshot(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	for _, want := range []domain.Order{order, {ID: 2, Quantity: -1, UnitPrice: 5}} {
		found, err := reopened.GetOrderByID(want.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		got, ok := found.Get()
		if !ok {
			t.Fatalf("order %d was not restored", want.ID)
		}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestOpenSnapshot_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, _, err := memory.OpenSnapshot(path); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}
