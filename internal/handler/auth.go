package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/careersdesk/portal/internal/middleware"
	"github.com/careersdesk/portal/internal/server"
	"github.com/careersdesk/portal/internal/user"
	jwt "github.com/dgrijalva/jwt-go"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func SignInHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		u, err := userRepo.Authenticate(req.Email, req.Password)
		if err != nil {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionName)
		if err != nil {
			svr.Log(err, "unable to retrieve session cookie")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to sign in"})
			return
		}
		claims := middleware.UserJWT{
			IsAdmin:        u.IsAdmin(),
			IsManager:      u.IsManager(),
			AssignedJobIDs: u.AssignedJobIDs,
			UserID:         u.ID,
			Email:          u.Email,
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: time.Now().Add(30 * 24 * time.Hour).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, err := token.SignedString(svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to sign in"})
			return
		}
		sess.Values["jwt"] = ss
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save session cookie")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to sign in"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"email":     u.Email,
			"full_name": u.FullName,
			"role":      u.Role,
		})
	}
}

func SignOutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svr.SessionStore.Get(r, middleware.SessionName)
		if err != nil {
			svr.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
			return
		}
		delete(sess.Values, "jwt")
		sess.Options.MaxAge = -1
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to expire session cookie")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
	}
}

// CurrentUserHandler lets the dashboard bootstrap its view from the
// session without a separate profile fetch.
func CurrentUserHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"status": "unauthorised"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"email":            claims.Email,
			"is_admin":         claims.IsAdmin,
			"is_manager":       claims.IsManager,
			"assigned_job_ids": claims.AssignedJobIDs,
		})
	}
}
