package domain

import "github.com/google/uuid"

// Grant representa un permiso que un rol confiere sobre un menú:
// (menú, código de permiso). El código es un string opaco que nombra
// la capacidad (ej: "view", "edit", "export").
type Grant struct {
	MenuID uuid.UUID `json:"menu_id"`
	Code   string    `json:"code"`
}

type grantKey struct {
	menuID uuid.UUID
	code   string
}

// GrantSet es la colección ordenada y deduplicada de grants de un rol.
// Es único por (MenuID, Code). Al construirse desde una lista con claves
// duplicadas, gana la última ocurrencia en orden de entrada (las anteriores
// se descartan en silencio, comportamiento heredado del sistema).
type GrantSet struct {
	grants []Grant
	index  map[grantKey]int
}

// NewGrantSet construye un GrantSet desde una lista, aplicando dedup
// last-wins por (MenuID, Code).
func NewGrantSet(grants []Grant) GrantSet {
	s := GrantSet{index: make(map[grantKey]int, len(grants))}
	for _, g := range grants {
		k := grantKey{menuID: g.MenuID, code: g.Code}
		if pos, ok := s.index[k]; ok {
			// Clave repetida: la última ocurrencia reemplaza a la anterior
			// conservando la posición original.
			s.grants[pos] = g
			continue
		}
		s.index[k] = len(s.grants)
		s.grants = append(s.grants, g)
	}
	return s
}

// List retorna los grants en orden. La slice retornada es una copia.
func (s GrantSet) List() []Grant {
	out := make([]Grant, len(s.grants))
	copy(out, s.grants)
	return out
}

// Len retorna la cantidad de grants.
func (s GrantSet) Len() int {
	return len(s.grants)
}

// Contains verifica si existe un grant para (menuID, code).
func (s GrantSet) Contains(menuID uuid.UUID, code string) bool {
	_, ok := s.index[grantKey{menuID: menuID, code: code}]
	return ok
}

// Codes retorna los códigos de permiso únicos del set, en orden de primera
// aparición. Varios menús pueden conferir el mismo código; el ledger del
// usuario se indexa por código, así que acá se colapsan.
func (s GrantSet) Codes() []string {
	seen := make(map[string]struct{}, len(s.grants))
	out := make([]string, 0, len(s.grants))
	for _, g := range s.grants {
		if _, ok := seen[g.Code]; ok {
			continue
		}
		seen[g.Code] = struct{}{}
		out = append(out, g.Code)
	}
	return out
}
