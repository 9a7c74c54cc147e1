package main

import (
	"log"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
	"github.com/careersdesk/portal/internal/config"
	"github.com/careersdesk/portal/internal/database"
	"github.com/careersdesk/portal/internal/email"
	"github.com/careersdesk/portal/internal/grid"
	"github.com/careersdesk/portal/internal/handler"
	"github.com/careersdesk/portal/internal/job"
	"github.com/careersdesk/portal/internal/middleware"
	"github.com/careersdesk/portal/internal/server"
	"github.com/careersdesk/portal/internal/storage"
	"github.com/careersdesk/portal/internal/user"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to initialise email client: %v", err)
	}
	storageClient, err := storage.NewClient(cfg.StorageEndpoint, cfg.StorageAPIKey)
	if err != nil {
		log.Fatalf("unable to initialise storage client: %v", err)
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		emailClient,
		storageClient,
		sessionStore,
	)

	jobRepo := job.NewRepository(conn)
	appRepo := application.NewRepository(conn)
	columnRepo := column.NewRepository(conn)
	userRepo := user.NewRepository(conn)
	gridManager := grid.NewManager(columnRepo, grid.NewFileKV("grid-layout.json"), svr.Log)

	svr.RegisterRoute("/health", handler.HealthCheckHandler(svr), []string{"GET"})
	svr.RegisterRoute("/robots.txt", handler.RobotsTxtHandler(svr), []string{"GET"})
	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/feed", handler.FeedHandler(svr, jobRepo), []string{"GET"})

	// public job listings
	svr.RegisterRoute("/jobs", handler.ActiveJobsHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/job/{slug}", handler.JobBySlugHandler(svr, jobRepo), []string{"GET"})

	// public application form
	svr.RegisterRoute("/form-fields", handler.FormFieldsHandler(svr, columnRepo), []string{"GET"})
	svr.RegisterRoute("/apply", handler.ApplyForJobHandler(svr, jobRepo, appRepo, columnRepo), []string{"POST"})

	// session
	svr.RegisterRoute("/auth/signin", handler.SignInHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/auth/signout", handler.SignOutHandler(svr), []string{"POST"})
	svr.RegisterRoute("/auth/me", handler.CurrentUserHandler(svr), []string{"GET"})

	// dashboard grid, admins and job managers
	svr.RegisterRoute("/admin/applications", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ListApplicationsHandler(svr, appRepo, columnRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/applications/export", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ExportApplicationsHandler(svr, appRepo, columnRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/applications/{id}/cell", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.UpdateCellHandler(svr, appRepo, columnRepo)), []string{"PUT"})
	svr.RegisterRoute("/admin/applications/{id}/archive", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ArchiveApplicationHandler(svr, appRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/applications/{id}/unarchive", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.UnarchiveApplicationHandler(svr, appRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/applications/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.DeleteApplicationHandler(svr, appRepo)), []string{"DELETE"})

	// column configuration, admin only
	svr.RegisterRoute("/admin/columns", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ListColumnsHandler(svr, columnRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/columns", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.AddColumnHandler(svr, columnRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/columns/layout", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.SaveColumnLayoutHandler(svr, gridManager)), []string{"PUT"})
	svr.RegisterRoute("/admin/columns/show-all", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ShowAllColumnsHandler(svr, gridManager)), []string{"POST"})
	svr.RegisterRoute("/admin/columns/prune", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.PruneOrphanedValuesHandler(svr, columnRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/columns/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.EditColumnHandler(svr, columnRepo)), []string{"PUT"})
	svr.RegisterRoute("/admin/columns/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.DeleteColumnHandler(svr, columnRepo)), []string{"DELETE"})
	svr.RegisterRoute("/admin/columns/{id}/toggle", middleware.ManagerAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ToggleColumnHandler(svr, gridManager)), []string{"POST"})
	svr.RegisterRoute("/admin/columns/{id}/form", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.SetShowInFormHandler(svr, columnRepo)), []string{"PUT"})

	// job management, admin only
	svr.RegisterRoute("/admin/jobs", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ListJobsHandler(svr, jobRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/jobs", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.CreateJobHandler(svr, jobRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/jobs/repair", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.RepairArchiveCascadesHandler(svr, jobRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/jobs/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.UpdateJobHandler(svr, jobRepo)), []string{"PUT"})
	svr.RegisterRoute("/admin/jobs/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.DeleteJobHandler(svr, jobRepo)), []string{"DELETE"})
	svr.RegisterRoute("/admin/jobs/{id}/archive", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ArchiveJobHandler(svr, jobRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/jobs/{id}/pdf", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.UploadJobPDFHandler(svr, jobRepo)), []string{"POST"})

	// user management, admin only
	svr.RegisterRoute("/admin/users", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ListUsersHandler(svr, userRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/users", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.CreateUserHandler(svr, userRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/users/access", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.ListJobAccessHandler(svr, userRepo)), []string{"GET"})
	svr.RegisterRoute("/admin/users/access", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.AssignManagerToJobHandler(svr, userRepo)), []string{"POST"})
	svr.RegisterRoute("/admin/users/access", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.RemoveManagerFromJobHandler(svr, userRepo)), []string{"DELETE"})
	svr.RegisterRoute("/admin/users/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.UpdateUserHandler(svr, userRepo)), []string{"PUT"})
	svr.RegisterRoute("/admin/users/{id}", middleware.AdminAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), handler.DeleteUserHandler(svr, userRepo)), []string{"DELETE"})

	log.Fatal(svr.Run())
}
