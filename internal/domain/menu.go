package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Menu es un recurso navegable del back office, el target de los grants.
// Forma un árbol vía ParentID (nil = raíz).
type Menu struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	Path      string
	Icon      string
	SortOrder int
	Hidden    bool
	CreatedAt time.Time
}

// NewMenu crea un menú validando el nombre (no vacío, ≤50 caracteres).
func NewMenu(name, path, icon string, parentID *uuid.UUID, sortOrder int) (*Menu, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxRoleNameLen {
		return nil, ErrNameTooLong
	}
	return &Menu{
		ID:        uuid.New(),
		Name:      name,
		ParentID:  parentID,
		Path:      strings.TrimSpace(path),
		Icon:      icon,
		SortOrder: sortOrder,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Rename cambia el nombre y path del menú con la misma validación de crear.
func (m *Menu) Rename(name, path string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxRoleNameLen {
		return ErrNameTooLong
	}
	m.Name = name
	m.Path = strings.TrimSpace(path)
	return nil
}
