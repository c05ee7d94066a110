package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoleRef es la membresía de un usuario a un rol, con los campos de display
// cacheados (nombre y flag disabled) para listar sin joins. El synchronizer
// los refresca cuando el rol cambia.
type RoleRef struct {
	RoleID   uuid.UUID `json:"role_id"`
	Name     string    `json:"name"`
	Disabled bool      `json:"disabled"`
}

// AttributedGrant es un código de permiso etiquetado con el rol que lo
// origina, la unidad de entrada de AddOrMergeGrants.
type AttributedGrant struct {
	Code   string
	RoleID uuid.UUID
}

// User es el aggregate de un usuario del back office: sus membresías de rol
// y su ledger de permisos materializado. El ledger es propiedad exclusiva
// del usuario; se muta por comandos directos (permisos directos, asignación
// de roles) y por callbacks de sincronización cuando un rol cambia.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Disabled     bool
	Deleted      bool
	CreatedAt    time.Time

	Roles  []RoleRef
	Ledger PermissionLedger
}

// NewUser crea un usuario con sus roles iniciales y permisos directos.
// Los grants derivados de los roles NO se agregan acá: el caller (service)
// debe mergearlos con AddOrMergeGrants en la misma operación lógica.
func NewUser(email, fullName, passwordHash string, roles []RoleRef, directCodes []string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		Ledger:       NewPermissionLedger(),
	}
	for _, r := range roles {
		u.addRole(r)
	}
	if err := u.Ledger.setDirect(directCodes); err != nil {
		return nil, err
	}
	return u, nil
}

// AddOrMergeGrants agrega atribuciones al ledger. Para cada (code, roleID):
// si existe la entrada suma el rol a sources (idempotente), si no la crea
// atribuida a ese rol.
func (u *User) AddOrMergeGrants(grants []AttributedGrant) {
	for _, g := range grants {
		u.Ledger.merge(g.Code, g.RoleID)
	}
}

// WithdrawRole retira la contribución de un rol del ledger. Solo toca
// entradas que realmente contienen el rol; las que quedan sin ningún
// origen (ni rol ni directo) se borran.
func (u *User) WithdrawRole(roleID uuid.UUID) {
	u.Ledger.withdraw(roleID)
}

// ReplaceRoleGrants reemplaza por completo la contribución de un rol en el
// ledger. Es el primitivo de sincronización ante RolePermissionChanged:
// aplicar dos veces el mismo (roleID, codes) produce el mismo ledger.
func (u *User) ReplaceRoleGrants(roleID uuid.UUID, codes []string) {
	u.Ledger.replaceRole(roleID, codes)
}

// SetDirectGrants reemplaza el set de permisos directos del usuario.
// Falla con ErrDuplicatePermission si algún código nuevo ya existe en el
// ledger (directo o derivado). All-or-nothing: si falla no muta nada.
func (u *User) SetDirectGrants(codes []string) error {
	return u.Ledger.setDirect(codes)
}

// AssignRoles hace diff de target contra las membresías actuales por
// RoleID: por cada rol que sale llama WithdrawRole y quita la membresía;
// por cada rol que entra agrega la fila de membresía. Los grants de los
// roles nuevos NO se agregan acá; llegan por AddOrMergeGrants en la misma
// operación lógica (comando directo) o por sincronización.
func (u *User) AssignRoles(target []RoleRef) {
	want := make(map[uuid.UUID]RoleRef, len(target))
	for _, r := range target {
		want[r.RoleID] = r
	}

	kept := u.Roles[:0]
	current := make(map[uuid.UUID]struct{}, len(u.Roles))
	for _, r := range u.Roles {
		current[r.RoleID] = struct{}{}
		if _, ok := want[r.RoleID]; ok {
			kept = append(kept, r)
			continue
		}
		u.Ledger.withdraw(r.RoleID)
	}
	u.Roles = kept

	for _, r := range target {
		if _, ok := current[r.RoleID]; !ok {
			u.addRole(r)
		}
	}
}

// UpdateCachedRoleLabel refresca los campos de display cacheados de una
// membresía. Falla con ErrRoleNotAssigned si el usuario no tiene el rol.
// No toca el ledger.
func (u *User) UpdateCachedRoleLabel(roleID uuid.UUID, name string, disabled bool) error {
	for i := range u.Roles {
		if u.Roles[i].RoleID == roleID {
			u.Roles[i].Name = name
			u.Roles[i].Disabled = disabled
			return nil
		}
	}
	return ErrRoleNotAssigned
}

// HasRole verifica si el usuario tiene la membresía.
func (u *User) HasRole(roleID uuid.UUID) bool {
	for _, r := range u.Roles {
		if r.RoleID == roleID {
			return true
		}
	}
	return false
}

// Permissions retorna los códigos de permiso efectivos, ordenados.
// Es lo que se embebe en el token de acceso: la razón de ser del ledger
// materializado es responder esto sin joins.
func (u *User) Permissions() []string {
	return u.Ledger.Codes()
}

// Delete marca el usuario como eliminado. Independiente de los cambios de
// rol: el soft-delete del usuario no dispara sincronización.
func (u *User) Delete() error {
	if u.Deleted {
		return ErrUserDeleted
	}
	u.Deleted = true
	return nil
}

func (u *User) addRole(r RoleRef) {
	if u.HasRole(r.RoleID) {
		return
	}
	u.Roles = append(u.Roles, r)
}
