package services

import "github.com/hopitalsej/sejour/internal/common"

// Menu entries shown to every authenticated user, in display order.
var baseMenu = []string{"Accueil", "Profil", "Les Patients", "Les Séjours"}

// adminMenu entries appended for administrators only.
var adminMenu = []string{"Utilisateurs"}

// VisibleMenu returns the navigation entries the given role set may see.
// This gates visibility only; the server enforces access on its side, so a
// crafted request without the role still gets a 403.
func VisibleMenu(roles common.RoleSet) []string {
	menu := make([]string, 0, len(baseMenu)+len(adminMenu))
	menu = append(menu, baseMenu...)
	if roles.Has(common.RoleAdmin) {
		menu = append(menu, adminMenu...)
	}
	return menu
}
