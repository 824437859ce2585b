package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hopitalsej/sejour/internal/client/api"
	"github.com/hopitalsej/sejour/internal/client/services"
	"github.com/hopitalsej/sejour/internal/common"
)

func (a *App) Login(ctx context.Context) {
	remembered, rememberedPw, err := a.authService.Remembered(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	prompt := "Email"
	if remembered != "" {
		prompt = fmt.Sprintf("Email [%s]", remembered)
	}
	email, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if email == "" {
		email = remembered
	}

	var password string
	if email == remembered && rememberedPw != "" {
		password = rememberedPw
	} else {
		password, err = GetPassword(a.out)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return
		}
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			fmt.Fprintln(a.out, "Saisie invalide")
		case errors.Is(err, common.ErrInvalidCredentials):
			fmt.Fprintln(a.out, "Identifiants invalides")
		case errors.Is(err, common.ErrAccountNotVerified):
			fmt.Fprintln(a.out, "Compte non vérifié")
		case errors.Is(err, api.ErrUnavailable):
			fmt.Fprintln(a.out, "Serveur indisponible")
		case errors.Is(err, services.ErrLoginInFlight):
			fmt.Fprintln(a.out, "Connexion déjà en cours")
		default:
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		return
	}

	a.userEmail = email
	fmt.Fprintln(a.out, "Connexion réussie")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	a.userEmail = ""
	fmt.Fprintln(a.out, "Déconnecté")
}
