package domain

import (
	"sort"

	"github.com/google/uuid"
)

// PermissionEntry es una fila del ledger de permisos de un usuario: un
// código de permiso con la atribución de origen.
//
//   - Direct=true: el permiso fue asignado directamente al usuario,
//     independiente de cualquier rol.
//   - sources: los roles que actualmente contribuyen este permiso.
//
// Una entrada existe mientras Direct || len(sources) > 0. Los dos orígenes
// son ortogonales: un código puede ser directo y además estar atribuido a
// roles; retirar el último rol no borra la entrada si sigue siendo directa.
type PermissionEntry struct {
	Code    string
	Direct  bool
	sources map[uuid.UUID]struct{}
}

// RestoreEntry reconstruye una entrada desde persistencia.
func RestoreEntry(code string, direct bool, sources []uuid.UUID) PermissionEntry {
	e := PermissionEntry{Code: code, Direct: direct, sources: make(map[uuid.UUID]struct{}, len(sources))}
	for _, id := range sources {
		e.sources[id] = struct{}{}
	}
	return e
}

// HasSource verifica si el rol contribuye esta entrada.
func (e *PermissionEntry) HasSource(roleID uuid.UUID) bool {
	_, ok := e.sources[roleID]
	return ok
}

// Sources retorna los roles contribuyentes, ordenados para persistencia
// determinista.
func (e *PermissionEntry) Sources() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(e.sources))
	for id := range e.sources {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// SourceCount retorna cuántos roles contribuyen la entrada.
func (e *PermissionEntry) SourceCount() int {
	return len(e.sources)
}

// PermissionLedger es el set materializado de permisos de un usuario,
// indexado por código. Es propiedad exclusiva de un User; toda mutación
// pasa por los primitivos del aggregate.
type PermissionLedger struct {
	entries map[string]*PermissionEntry
}

// NewPermissionLedger crea un ledger vacío.
func NewPermissionLedger() PermissionLedger {
	return PermissionLedger{entries: make(map[string]*PermissionEntry)}
}

// RestoreLedger reconstruye un ledger desde persistencia.
func RestoreLedger(entries []PermissionEntry) PermissionLedger {
	l := NewPermissionLedger()
	for i := range entries {
		e := entries[i]
		if e.sources == nil {
			e.sources = make(map[uuid.UUID]struct{})
		}
		l.entries[e.Code] = &e
	}
	return l
}

// Get retorna la entrada para un código, o nil si no existe.
func (l *PermissionLedger) Get(code string) *PermissionEntry {
	return l.entries[code]
}

// Has verifica si existe una entrada para el código.
func (l *PermissionLedger) Has(code string) bool {
	_, ok := l.entries[code]
	return ok
}

// Len retorna la cantidad de entradas.
func (l *PermissionLedger) Len() int {
	return len(l.entries)
}

// Codes retorna todos los códigos, ordenados.
func (l *PermissionLedger) Codes() []string {
	out := make([]string, 0, len(l.entries))
	for code := range l.entries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Entries retorna copias de todas las entradas, ordenadas por código.
func (l *PermissionLedger) Entries() []PermissionEntry {
	out := make([]PermissionEntry, 0, len(l.entries))
	for _, code := range l.Codes() {
		e := l.entries[code]
		cp := PermissionEntry{Code: e.Code, Direct: e.Direct, sources: make(map[uuid.UUID]struct{}, len(e.sources))}
		for id := range e.sources {
			cp.sources[id] = struct{}{}
		}
		out = append(out, cp)
	}
	return out
}

// merge agrega la atribución (code, roleID). Si la entrada existe, suma el
// rol al set de sources (idempotente); si no, crea la entrada atribuida
// solo a ese rol.
func (l *PermissionLedger) merge(code string, roleID uuid.UUID) {
	if e, ok := l.entries[code]; ok {
		e.sources[roleID] = struct{}{}
		return
	}
	l.entries[code] = &PermissionEntry{
		Code:    code,
		sources: map[uuid.UUID]struct{}{roleID: {}},
	}
}

// withdraw retira roleID de toda entrada que realmente lo contenga. Una
// entrada cuyo set de sources queda vacío *por esta remoción* se borra,
// salvo que además sea directa. Las entradas que nunca contuvieron el rol
// (incluidas las directas puras) no se tocan.
func (l *PermissionLedger) withdraw(roleID uuid.UUID) {
	for code, e := range l.entries {
		if _, ok := e.sources[roleID]; !ok {
			continue
		}
		delete(e.sources, roleID)
		if len(e.sources) == 0 && !e.Direct {
			delete(l.entries, code)
		}
	}
}

// replaceRole reemplaza por completo la contribución de un rol:
// withdraw(roleID) seguido de merge de cada código etiquetado con roleID.
// Aplicarlo dos veces con los mismos argumentos deja el ledger igual.
func (l *PermissionLedger) replaceRole(roleID uuid.UUID, codes []string) {
	l.withdraw(roleID)
	for _, code := range codes {
		l.merge(code, roleID)
	}
}

// setDirect hace diff de los códigos directos actuales contra target.
// Quita el flag directo de los que salen (borrando la entrada si no queda
// ningún rol contribuyente) y agrega entradas directas nuevas. Falla con
// ErrDuplicatePermission si algún código a agregar ya existe en el ledger
// —directo o derivado de rol—: un permiso directo nunca puede duplicar ni
// pisar uno derivado. La validación corre completa antes de mutar.
func (l *PermissionLedger) setDirect(codes []string) error {
	target := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		target[c] = struct{}{}
	}

	var adds []string
	for c := range target {
		e, ok := l.entries[c]
		if !ok {
			adds = append(adds, c)
			continue
		}
		if !e.Direct {
			return ErrDuplicatePermission
		}
	}

	for code, e := range l.entries {
		if !e.Direct {
			continue
		}
		if _, keep := target[code]; keep {
			continue
		}
		e.Direct = false
		if len(e.sources) == 0 {
			delete(l.entries, code)
		}
	}

	for _, code := range adds {
		l.entries[code] = &PermissionEntry{
			Code:    code,
			Direct:  true,
			sources: make(map[uuid.UUID]struct{}),
		}
	}
	return nil
}
