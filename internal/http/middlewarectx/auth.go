// Package middlewarectx contiene los middleware HTTP de la aplicación:
// autenticación JWT, control de acceso por suscripción y límite de
// peticiones.
//
// JWTMiddleware comprueba el token Bearer del encabezado Authorization.
// Una petición sin token se redirige al inicio de sesión conservando la
// ruta original en el parámetro next; un token presente pero inválido
// devuelve 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/http/response"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// AuthService valida el token JWT y devuelve la cuenta que representa.
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*models.Account, error)
}

// JWTMiddleware añade al contexto el usuario, rol y UID de la cuenta
// autenticada.
func JWTMiddleware(auth AuthService, loginPath string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("unauthenticated request, redirecting to sign-in",
					slog.String("path", r.URL.Path))
				http.Redirect(w, r, signInURL(loginPath, r.URL.RequestURI()), http.StatusFound)
				return
			}

			account, err := auth.ValidateToken(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), User, account.Username)
			ctx = context.WithValue(ctx, Role, account.Role)
			ctx = context.WithValue(ctx, UserUID, account.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// signInURL construye la URL de inicio de sesión con la ruta original
// en el parámetro next.
func signInURL(loginPath, original string) string {
	return loginPath + "?next=" + url.QueryEscape(original)
}
