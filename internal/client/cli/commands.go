package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hopitalsej/sejour/internal/client/api"
	"github.com/hopitalsej/sejour/internal/client/services"
	"github.com/hopitalsej/sejour/internal/common"
)

func (a *App) Profile(ctx context.Context) {
	profile, err := a.authService.Profile(ctx)
	if err != nil {
		a.reportGuardedErr(err)
		return
	}
	a.userEmail = profile.Email
	fmt.Fprintf(a.out, "Email: %s\nRôles: %s\n", profile.Email, strings.Join(profile.Roles, ", "))
}

func (a *App) Patients(ctx context.Context, search string) {
	list, err := a.authService.Patients(ctx, search)
	if err != nil {
		a.reportGuardedErr(err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Aucun patient")
		return
	}
	for _, p := range list {
		fmt.Fprintf(a.out, "%s %s (chambre %s)\n", p.FirstName, p.LastName, p.RoomNumber)
	}
}

func (a *App) Users(ctx context.Context, search string) {
	list, err := a.authService.Users(ctx, search)
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			fmt.Fprintln(a.out, "Accès refusé")
			return
		}
		a.reportGuardedErr(err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Aucun utilisateur")
		return
	}
	for _, u := range list {
		fmt.Fprintf(a.out, "%s [%s]\n", u.Email, strings.Join(u.Roles, ", "))
	}
}

// Menu prints the navigation entries visible to the current user. The roles
// come from the server, so an admin entry never shows up on a stale guess.
func (a *App) Menu(ctx context.Context) {
	profile, err := a.authService.Profile(ctx)
	if err != nil {
		a.reportGuardedErr(err)
		return
	}
	for _, item := range services.VisibleMenu(common.NewRoleSet(profile.Roles)) {
		fmt.Fprintln(a.out, "-", item)
	}
}

func (a *App) Ping(ctx context.Context) {
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Serveur indisponible")
		return
	}
	fmt.Fprintln(a.out, "Serveur en ligne")
}

// reportGuardedErr turns guarded-read failures into user messages. On a
// rejected token the service already wiped the session, so the user is back
// at the login screen.
func (a *App) reportGuardedErr(err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrForbidden):
		a.userEmail = ""
		fmt.Fprintln(a.out, "Session expirée, veuillez vous reconnecter")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Introuvable")
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Serveur indisponible")
	case errors.Is(err, services.ErrSuperseded):
		// session changed mid-flight, nothing to show
	default:
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
}
