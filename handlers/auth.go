package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Shahinaks/FOODORDERAPP/middleware"
	"github.com/Shahinaks/FOODORDERAPP/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var secretKey = []byte(os.Getenv("SESSION_SECRET"))

type tokenResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

func issueToken(user models.User, lifetime time.Duration, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"uid":      user.UID,
		"username": user.Name,
		"email":    user.Email,
		"role":     user.Role,
		"exp":      time.Now().Add(lifetime).Unix(),
		"iat":      time.Now().Unix(),
	}
	if tokenType != "" {
		claims["type"] = tokenType
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// RegisterUserHandler creates a new user account with a bcrypt-hashed
// password. Email addresses are unique and stored lowercased.
func (db *DB) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email, and password are required fields")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var existing models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		writeMessage(w, http.StatusBadRequest, "Email is already registered")
		return
	}
	if err != mongo.ErrNoDocuments {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		UID:          uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// LoginHandler verifies credentials and issues access and refresh tokens.
func (db *DB) LoginHandler(w http.ResponseWriter, r *http.Request) {
	loginRequests.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "User not found")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Database error")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	accessToken, err := issueToken(user, time.Hour, "")
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	refreshToken, err := issueToken(user, 24*time.Hour, "refresh")
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to generate refresh token")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	// Store refresh token so logout can revoke it
	_, err = db.RefreshTokenCollection.InsertOne(ctx, bson.M{
		"uid":           user.UID,
		"refresh_token": refreshToken,
		"iat":           time.Now().Unix(),
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to store refresh token")
		loginRequestsByStatus.WithLabelValues("error").Inc()
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
	loginRequestsByStatus.WithLabelValues("success").Inc()
}

// RefreshTokenHandler exchanges a stored refresh token for a new access token.
func (db *DB) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid token claims")
		return
	}
	if claims["type"] != "refresh" {
		writeMessage(w, http.StatusUnauthorized, "Invalid token type")
		return
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		writeMessage(w, http.StatusUnauthorized, "Invalid token payload")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	var stored struct {
		RefreshToken string `bson:"refresh_token"`
	}
	err = db.RefreshTokenCollection.FindOne(ctx, bson.M{
		"uid":           uid,
		"refresh_token": req.RefreshToken,
	}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		writeMessage(w, http.StatusUnauthorized, "User no longer exists")
		return
	}

	accessToken, err := issueToken(user, time.Hour, "")
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to generate access token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// LogoutHandler revokes the user's refresh tokens.
func (db *DB) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}

	ctx, cancel := opContext()
	defer cancel()

	result, err := db.RefreshTokenCollection.DeleteMany(ctx, bson.M{"uid": user.UID})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to delete refresh token")
		return
	}
	if result.DeletedCount == 0 {
		writeMessage(w, http.StatusNotFound, "No active session found")
		return
	}

	writeMessage(w, http.StatusOK, "User logged out successfully")
}

// GetCurrentUserHandler returns the authenticated user's profile.
func (db *DB) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No authenticated user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
