// file: internals/middlewares/auth/jwt_auth.go
package auth

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
)

// ActorResolver turns the token subject into a workflow actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (identityModel.Actor, error)
}

type AuthJWTOpts struct {
	Secret              string
	Resolver            ActorResolver
	AllowCookieFallback bool // read the access_token cookie when there is no Bearer header
}

// AuthJWT verifies an HS256 token, then resolves the actor once and stores
// it in Locals for the handlers.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}
	if o.Resolver == nil {
		panic("AuthJWT: Resolver is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals(helperAuth.LocJWTClaims, claims)

		// user id: id, sub, user_id in that order
		sub := ""
		for _, k := range []string{"id", "sub", "user_id"} {
			if s := strClaim(claims, k); s != "" {
				sub = s
				break
			}
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token subject")
		}
		c.Locals(helperAuth.LocUserID, userID.String())

		actor, err := o.Resolver.ResolveActor(c.UserContext(), userID)
		if err != nil {
			log.Printf("[AUTH] resolve actor user_id=%s: %v", userID, err)
			return helper.FromAppError(c, err)
		}
		c.Locals(helperAuth.LocActor, actor)
		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
