package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// HasAdminRole reports whether the member may review submissions or run
// admin commands. Server administrators always qualify.
func HasAdminRole(member *discord.ResolvedMember, adminRoleID, modRoleID snowflake.ID) bool {
	if member == nil {
		return false
	}
	if member.Permissions.Has(discord.PermissionAdministrator) {
		return true
	}
	for _, roleID := range member.RoleIDs {
		if roleID == adminRoleID || roleID == modRoleID {
			return true
		}
	}
	return false
}
