package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// snapshotOrder — формат заказа в файле снимка. Итоговая сумма не хранится.
type snapshotOrder struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OpenSnapshot возвращает in-memory репозиторий, заполненный заказами из JSON-файла
// path, и функцию flush, записывающую текущее состояние обратно в файл.
// Отсутствующий файл означает пустое хранилище.
func OpenSnapshot(path string) (domain.OrderRepository, func() error, error) {
	repo := &orderRepositoryInMemory{items: make(map[int64]domain.Order)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, nil, fmt.Errorf("read snapshot %s: %w", path, err)
	case len(data) > 0:
		var stored []snapshotOrder
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, nil, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		for _, o := range stored {
			repo.items[o.ID] = domain.Order{
				ID:          o.ID,
				ProductName: o.ProductName,
				Quantity:    o.Quantity,
				UnitPrice:   o.UnitPrice,
			}
		}
	}

	flush := func() error {
		return repo.writeSnapshot(path)
	}
	return repo, flush, nil
}

// writeSnapshot пишет заказы во временный файл рядом с path и атомарно подменяет его.
func (r *orderRepositoryInMemory) writeSnapshot(path string) error {
	r.mu.RLock()
	stored := make([]snapshotOrder, 0, len(r.items))
	for _, o := range r.items {
		stored = append(stored, snapshotOrder{
			ID:          o.ID,
			ProductName: o.ProductName,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
		})
	}
	r.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool { return stored[i].ID < stored[j].ID })

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}
