package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careersdesk/portal/internal/server"
	"github.com/careersdesk/portal/internal/user"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

func ListUsersHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := userRepo.ListUsers()
		if err != nil {
			svr.Log(err, "unable to retrieve users")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		for i, u := range users {
			users[i].CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
		}
		svr.JSON(w, http.StatusOK, users)
	}
}

func CreateUserHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload user.CreatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		u, err := userRepo.CreateUser(payload)
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		svr.JSON(w, http.StatusOK, u)
	}
}

func UpdateUserHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var payload user.UpdatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if err := userRepo.UpdateUser(vars["id"], payload); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func DeleteUserHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := userRepo.DeleteUser(vars["id"]); err != nil {
			svr.Log(err, "unable to delete user")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type jobAccessRequest struct {
	UserID string `json:"user_id"`
	JobID  string `json:"job_id"`
}

func AssignManagerToJobHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobAccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if req.UserID == "" || req.JobID == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and job_id are required"})
			return
		}
		if err := userRepo.AssignManagerToJob(req.UserID, req.JobID); err != nil {
			svr.Log(err, "unable to assign manager to job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "assigned"})
	}
}

func RemoveManagerFromJobHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobAccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if err := userRepo.RemoveManagerFromJob(req.UserID, req.JobID); err != nil {
			svr.Log(err, "unable to remove manager from job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}

func ListJobAccessHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, err := userRepo.ListJobManagerAccess()
		if err != nil {
			svr.Log(err, "unable to retrieve job access list")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, access)
	}
}
