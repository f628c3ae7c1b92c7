package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type contextKey string

const userContextKey contextKey = "currentUser"

var secretKey = []byte(os.Getenv("SESSION_SECRET"))

// Auth validates bearer identity tokens and resolves them to a user document.
// The token itself is treated as externally issued; only the HMAC signature
// and the identity claims are inspected here.
type Auth struct {
	Users *mongo.Collection
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// Authenticate parses the Authorization bearer token, verifies it, and loads
// the matching user into the request context. A user document is created on
// first sight of a valid identity, mirroring identity-provider-backed logins.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secretKey, nil
		})
		if err != nil || !token.Valid {
			respondMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		uid, _ := claims["uid"].(string)
		email, _ := claims["email"].(string)
		if uid == "" && email == "" {
			respondMessage(w, http.StatusUnauthorized, "Missing identity claims in token")
			return
		}

		user, err := a.resolveUser(r.Context(), claims, uid, email)
		if err != nil {
			respondMessage(w, http.StatusUnauthorized, "Failed to resolve user identity")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveUser finds the user by uid, falls back to email, and creates the
// document when neither matches.
func (a *Auth) resolveUser(ctx context.Context, claims jwt.MapClaims, uid, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := a.Users.FindOne(ctx, bson.M{"uid": uid}).Decode(&user)
	if err == nil {
		return user, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	if email != "" {
		err = a.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == nil {
			if uid != "" && user.UID != uid {
				_, _ = a.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"uid": uid}})
				user.UID = uid
			}
			return user, nil
		}
		if err != mongo.ErrNoDocuments {
			return models.User{}, err
		}
	}

	name, _ := claims["username"].(string)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = "user"
	}
	user = models.User{
		UID:       uid,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	res, err := a.Users.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// RequireAdmin rejects requests whose resolved user lacks the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "No authenticated user")
			return
		}
		if user.Role != "admin" {
			respondMessage(w, http.StatusForbidden, "Admin access only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the user set by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// ContextWithUser is used by handler tests to simulate an authenticated
// request.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// ValidateJSONBody rejects mutating requests that carry a body which is not
// valid JSON or not declared as application/json. Requests without a body
// pass through untouched; order cancel and logout send none.
func ValidateJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "Error reading request body")
			return
		}
		if len(body) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		contentType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			respondMessage(w, http.StatusUnsupportedMediaType, "Content-Type header must be application/json")
			return
		}
		if !json.Valid(body) {
			respondMessage(w, http.StatusBadRequest, "Request body is not valid JSON")
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}
