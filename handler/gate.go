package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"school-api/access"
	"school-api/common"
	"school-api/model"
	"school-api/schema"
	"school-api/service"
	"strings"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	payloadKey  contextKey = "payload"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*model.AppClaims, error)
}

// IdentityResolver loads the caller named by verified claims.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *model.AppClaims) (*model.Identity, error)
}

// Gate runs the checks every protected endpoint shares, in order: bearer token,
// role against the token's userType, payload schema, identity lookup, scope match.
// The wrapped handler runs only when all of them pass.
type Gate struct {
	tokens     TokenParser
	identities IdentityResolver
}

func NewGate(tokens TokenParser, identities IdentityResolver) *Gate {
	return &Gate{tokens: tokens, identities: identities}
}

// Guard wraps next with policy and, when s is non-nil, payload validation.
func (g *Gate) Guard(policy access.Policy, s schema.Schema, next AppHandler) http.Handler {
	return ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
		claims, appErr := g.authenticate(r)
		if appErr != nil {
			return appErr
		}

		if !policy.Permits(claims.UserType) {
			return common.NewAppError(http.StatusForbidden, "Permission denied", access.ErrForbidden)
		}

		payload := map[string]any{}
		if s != nil {
			raw, appErr := readPayload(r)
			if appErr != nil {
				return appErr
			}
			normalized, err := s.Validate(raw)
			if err != nil {
				var verr *schema.ValidationError
				if errors.As(err, &verr) {
					return common.NewAppError(http.StatusBadRequest, "Validation failed", err).WithDetails(verr.Errors)
				}
				return common.NewAppError(http.StatusBadRequest, "Validation failed", err)
			}
			payload = normalized
		}

		identity, err := g.identities.Resolve(r.Context(), claims)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidToken) {
				return common.NewAppError(http.StatusUnauthorized, "Unknown user", err)
			}
			return common.NewAppError(http.StatusInternalServerError, "Could not resolve user", err)
		}

		if err := access.Authorize(*identity, policy, payload); err != nil {
			return common.NewAppError(http.StatusForbidden, "Permission denied", err)
		}

		ctx := context.WithValue(r.Context(), identityKey, *identity)
		ctx = context.WithValue(ctx, payloadKey, payload)
		return next(w, r.WithContext(ctx))
	})
}

func (g *Gate) authenticate(r *http.Request) (*model.AppClaims, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return nil, common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
	}

	claims, err := g.tokens.ParseToken(headerParts[1])
	if err != nil {
		return nil, common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
	}
	return claims, nil
}

// readPayload takes query parameters for GET and the JSON object body otherwise.
func readPayload(r *http.Request) (map[string]any, *common.AppError) {
	if r.Method == http.MethodGet {
		return schema.FromQuery(r.URL.Query()), nil
	}

	payload := map[string]any{}
	if r.Body == nil {
		return payload, nil
	}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, common.NewAppError(http.StatusBadRequest, "Request body must be a JSON object", err)
	}
	return payload, nil
}

// IdentityFrom returns the caller resolved by the gate.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

// PayloadFrom returns the normalized payload validated by the gate.
func PayloadFrom(ctx context.Context) map[string]any {
	payload, _ := ctx.Value(payloadKey).(map[string]any)
	return payload
}

func identityOf(r *http.Request) (model.Identity, *common.AppError) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		return model.Identity{}, common.NewAppError(http.StatusUnauthorized, "Missing caller identity", nil)
	}
	return identity, nil
}

func decodePayload(r *http.Request, dst any) *common.AppError {
	if err := common.DecodePayload(PayloadFrom(r.Context()), dst); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}
	return nil
}
