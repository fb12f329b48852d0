package inmem

import (
	"context"

	"github.com/mergefield/fieldclip"
)

// ListFields returns a copy of the catalog in import order.
func (s *Service) ListFields(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.fields...), nil
}

// ImportFields replaces the catalog with names.
func (s *Service) ImportFields(ctx context.Context, names []string) (int, error) {
	names = fieldclip.NormalizeFieldNames(names)
	if len(names) == 0 {
		return 0, fieldclip.ErrEmptyFieldList
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = names
	return len(names), nil
}

// ClearFields removes every field name.
func (s *Service) ClearFields(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = []string{}
	return nil
}
