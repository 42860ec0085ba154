// Package access holds the role rules shared by routes and services.
package access

import (
	"fmt"
	"strings"

	"github.com/nikhil/teamhub/internal/models"
)

// Allows reports whether role is one of allowed.
func Allows(role models.Role, allowed ...models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// DeniedMessage is the caller-facing text for a failed role gate.
func DeniedMessage(allowed ...models.Role) string {
	names := make([]string, len(allowed))
	for i, r := range allowed {
		names[i] = string(r)
	}
	return fmt.Sprintf("Insufficient permissions. This action requires %s role.", strings.Join(names, " or "))
}

// FieldPolicy lists, per role, the fields that role may change on an entity.
// A role without an entry may change every field.
type FieldPolicy map[models.Role][]string

// TaskFields restricts members to moving their own tasks along the board.
var TaskFields = FieldPolicy{
	models.RoleMember: {"status"},
}

// Check returns the first submitted field the role may not change.
func (p FieldPolicy) Check(role models.Role, submitted []string) (string, bool) {
	allowed, restricted := p[role]
	if !restricted {
		return "", true
	}
	for _, field := range submitted {
		if !contains(allowed, field) {
			return field, false
		}
	}
	return "", true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
