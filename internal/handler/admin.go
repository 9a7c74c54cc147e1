package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
	"github.com/careersdesk/portal/internal/export"
	"github.com/careersdesk/portal/internal/grid"
	"github.com/careersdesk/portal/internal/job"
	"github.com/careersdesk/portal/internal/middleware"
	"github.com/careersdesk/portal/internal/server"
	"github.com/careersdesk/portal/internal/storage"
	"github.com/gorilla/mux"
)

// scopedApplications loads the rows the signed-on user may see:
// admins get everything, managers only their assigned jobs.
func scopedApplications(svr server.Server, appRepo *application.Repository, r *http.Request, includeArchived bool) ([]application.Application, error) {
	claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		return nil, err
	}
	if claims.IsAdmin {
		return appRepo.List(includeArchived)
	}
	return appRepo.ListByJobIDs(claims.AssignedJobIDs, includeArchived)
}

func listColumnsOrDefaults(svr server.Server, columnRepo *column.Repository) []column.Definition {
	cols, err := columnRepo.ListColumns()
	if err != nil || len(cols) == 0 {
		if err != nil {
			svr.Log(err, "unable to retrieve column definitions, using defaults")
		}
		cols = column.DefaultColumns()
	}
	return cols
}

func ListApplicationsHandler(svr server.Server, appRepo *application.Repository, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		includeArchived := query.Get("archived") == "true"
		apps, err := scopedApplications(svr, appRepo, r, includeArchived)
		if err != nil {
			svr.Log(err, "unable to retrieve applications")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		cols := listColumnsOrDefaults(svr, columnRepo)
		filters := application.ParseFilterStateFromQuery(query, cols)
		if filters.IsActive() {
			filtered := make([]application.Application, 0, len(apps))
			for _, app := range apps {
				if filters.Match(app) {
					filtered = append(filtered, app)
				}
			}
			apps = filtered
		}
		sortKey := application.SortKey(query.Get("sort"))
		if sortKey == "" {
			sortKey = application.SortKeyDate
		}
		direction := application.SortDirection(query.Get("dir"))
		if direction == "" {
			direction = application.SortDescending
		}
		application.Sort(apps, sortKey, direction)
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"applications": apps,
			"total":        len(apps),
		})
	}
}

type updateCellRequest struct {
	ColumnID string `json:"column_id"`
	Value    string `json:"value"`
}

// UpdateCellHandler commits a single cell edit through the grid's
// editing protocol: dropdowns take the single-step select path, text
// cells run begin/input/commit, and an unchanged value never reaches
// the store.
func UpdateCellHandler(svr server.Server, appRepo *application.Repository, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var req updateCellRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		col, err := columnRepo.GetColumn(req.ColumnID)
		if err != nil {
			// built-ins are editable even when the definitions table
			// has not been seeded
			var found bool
			for _, def := range column.DefaultColumns() {
				if def.ID == req.ColumnID {
					col, found = def, true
					break
				}
			}
			if !found {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "unknown column"})
				return
			}
		}
		app, err := appRepo.GetByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		if err := commitCell(appRepo, app, col, req.Value); err != nil {
			if errors.Is(err, grid.ErrNotEditable) || errors.Is(err, grid.ErrInvalidOption) {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			svr.Log(err, "unable to commit cell edit")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		updated, err := appRepo.GetByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
			return
		}
		svr.JSON(w, http.StatusOK, updated)
	}
}

// commitCell routes one edit through the cell editor so validation,
// bag merge and the changed-value check live in a single place.
func commitCell(writer grid.FieldWriter, app application.Application, col column.Definition, value string) error {
	if grid.KindFor(col) == grid.KindDropdown {
		return grid.SelectOption(writer, app, col, value)
	}
	editor, err := grid.BeginEdit(writer, app, col)
	if err != nil {
		return err
	}
	editor.Input(value)
	return editor.Commit()
}

func ArchiveApplicationHandler(svr server.Server, appRepo *application.Repository) http.HandlerFunc {
	return setArchivedHandler(svr, appRepo, true)
}

func UnarchiveApplicationHandler(svr server.Server, appRepo *application.Repository) http.HandlerFunc {
	return setArchivedHandler(svr, appRepo, false)
}

func setArchivedHandler(svr server.Server, appRepo *application.Repository, archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := appRepo.SetArchived(vars["id"], archived); err != nil {
			svr.Log(err, "unable to change archived flag")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// DeleteApplicationHandler is the hard delete: the stored resume
// object is released first, then the row goes.
func DeleteApplicationHandler(svr server.Server, appRepo *application.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		app, err := appRepo.GetByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		bucket := svr.GetConfig().ResumeBucket
		if app.ResumeURL != "" {
			if objectName := storage.ObjectNameFromURL(app.ResumeURL, bucket); objectName != "" {
				if err := svr.GetStorage().DeleteObject(bucket, objectName); err != nil {
					svr.Log(err, "unable to delete resume object, row delete proceeds")
				}
			}
		}
		if err := appRepo.Delete(app.ID); err != nil {
			svr.Log(err, "unable to delete application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ExportApplicationsHandler streams the current grid view as a
// spreadsheet. The client passes its visible column ids in display
// order; absent that the full definition set is exported.
func ExportApplicationsHandler(svr server.Server, appRepo *application.Repository, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		apps, err := scopedApplications(svr, appRepo, r, query.Get("archived") == "true")
		if err != nil {
			svr.Log(err, "unable to retrieve applications for export")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		cols := listColumnsOrDefaults(svr, columnRepo)
		filters := application.ParseFilterStateFromQuery(query, cols)
		if filters.IsActive() {
			filtered := make([]application.Application, 0, len(apps))
			for _, app := range apps {
				if filters.Match(app) {
					filtered = append(filtered, app)
				}
			}
			apps = filtered
		}
		sortKey := application.SortKey(query.Get("sort"))
		if sortKey == "" {
			sortKey = application.SortKeyDate
		}
		direction := application.SortDirection(query.Get("dir"))
		if direction == "" {
			direction = application.SortDescending
		}
		application.Sort(apps, sortKey, direction)

		visible := cols
		if requested := query.Get("columns"); requested != "" {
			byID := make(map[string]column.Definition, len(cols))
			for _, col := range cols {
				byID[col.ID] = col
			}
			visible = make([]column.Definition, 0, len(cols))
			for _, id := range strings.Split(requested, ",") {
				if col, ok := byID[strings.TrimSpace(id)]; ok {
					visible = append(visible, col)
				}
			}
			if len(visible) == 0 {
				visible = cols
			}
		}
		rows := export.BuildExportRows(apps, visible)
		headers := export.Headers(visible)

		format := query.Get("format")
		if format != "csv" {
			format = "xlsx"
		}
		buf := new(bytes.Buffer)
		var contentType string
		switch format {
		case "csv":
			contentType = "text/csv"
			err = export.WriteCSV(buf, headers, rows)
		default:
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = export.WriteXLSX(buf, headers, rows, "Applications")
		}
		if err != nil {
			svr.Log(err, "unable to build export file")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.GenerateFilename("applications", format)))
		svr.MEDIA(w, http.StatusOK, buf.Bytes(), contentType)
	}
}

func ListColumnsHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.JSON(w, http.StatusOK, listColumnsOrDefaults(svr, columnRepo))
	}
}

type columnRequest struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Options []column.Option `json:"options"`
}

func AddColumnHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req columnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		col, err := columnRepo.AddColumn(req.Name, column.FieldType(req.Type), req.Options)
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		svr.JSON(w, http.StatusOK, col)
	}
}

func EditColumnHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var req columnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if err := columnRepo.EditColumn(vars["id"], req.Name, column.FieldType(req.Type), req.Options); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// DeleteColumnHandler removes the definition only. Values already in
// row bags stay until an explicit prune.
func DeleteColumnHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !column.IsCustomID(vars["id"]) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "built-in columns cannot be deleted"})
			return
		}
		if err := columnRepo.DeleteColumn(vars["id"]); err != nil {
			svr.Log(err, "unable to delete column")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

type showInFormRequest struct {
	ShowInForm bool `json:"show_in_form"`
}

func SetShowInFormHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var req showInFormRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if err := columnRepo.SetShowInForm(vars["id"], req.ShowInForm); err != nil {
			svr.Log(err, "unable to update show in form flag")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func SaveColumnLayoutHandler(svr server.Server, gridManager *grid.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var states []grid.ColumnState
		if err := json.NewDecoder(r.Body).Decode(&states); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		gridManager.SaveLayout(states)
		svr.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}

func ToggleColumnHandler(svr server.Server, gridManager *grid.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		gridManager.ToggleColumnVisibility(vars["id"])
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"visible": gridManager.VisibleColumns(),
			"hidden":  gridManager.HiddenColumnIDs(),
		})
	}
}

func ShowAllColumnsHandler(svr server.Server, gridManager *grid.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gridManager.ShowAllColumns()
		svr.JSON(w, http.StatusOK, gridManager.VisibleColumns())
	}
}

func PruneOrphanedValuesHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		affected, err := columnRepo.PruneOrphanedValues()
		if err != nil {
			svr.Log(err, "unable to prune orphaned column values")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]int64{"rows_affected": affected})
	}
}

func ListJobsHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var jobs []job.Job
		var err error
		if query := r.URL.Query().Get("q"); query != "" {
			jobs, err = jobRepo.Search(query)
		} else {
			jobs, err = jobRepo.List()
		}
		if err != nil {
			svr.Log(err, "unable to retrieve jobs")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, jobs)
	}
}

func CreateJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var j job.Job
		if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if j.Position == "" || j.OrganisationName == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "position and organisation_name are required"})
			return
		}
		created, err := jobRepo.Create(j)
		if err != nil {
			svr.Log(err, "unable to create job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusOK, created)
	}
}

func UpdateJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var j job.Job
		if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		j.ID = vars["id"]
		if j.Status != "" && !job.ValidStatus(j.Status) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		existing, err := jobRepo.GetByID(j.ID)
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		if err := jobRepo.Update(j); err != nil {
			svr.Log(err, "unable to update job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		bucket := svr.GetConfig().JobPDFBucket
		if objectName := replacedPDFObject(existing.PDFURL, j.PDFURL, bucket); objectName != "" {
			if err := svr.GetStorage().DeleteObject(bucket, objectName); err != nil {
				svr.Log(err, "unable to delete replaced job pdf object")
			}
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

const maxJobPDFSize = 10 * 1024 * 1024

// UploadJobPDFHandler stores the job-description PDF and points the
// job at it, releasing the previous object when one was already set.
func UploadJobPDFHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		j, err := jobRepo.GetByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, int64(maxJobPDFSize))
		pdf, header, err := r.FormFile("pdf")
		if err != nil {
			svr.Log(err, "unable to read job pdf file")
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "pdf is required and must be under 10MB"})
			return
		}
		defer pdf.Close()
		fileBytes, err := ioutil.ReadAll(pdf)
		if err != nil {
			svr.Log(err, "unable to read job pdf file content")
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "pdf must be under 10MB"})
			return
		}
		contentType := http.DetectContentType(fileBytes)
		if contentType != "application/pdf" {
			svr.JSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "file must be a PDF"})
			return
		}
		objectName := storage.SanitizeFilename(header.Filename)
		bucket := svr.GetConfig().JobPDFBucket
		if err := svr.GetStorage().Upload(bucket, objectName, fileBytes, contentType); err != nil {
			svr.Log(err, "unable to upload job pdf to storage")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to store pdf"})
			return
		}
		pdfURL := svr.GetStorage().PublicURL(bucket, objectName)
		if err := jobRepo.SetPDFURL(j.ID, pdfURL); err != nil {
			svr.Log(err, "unable to save job pdf url")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if old := replacedPDFObject(j.PDFURL, pdfURL, bucket); old != "" {
			if err := svr.GetStorage().DeleteObject(bucket, old); err != nil {
				svr.Log(err, "unable to delete replaced job pdf object")
			}
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"pdf_url": pdfURL})
	}
}

// replacedPDFObject names the storage object to release after a job's
// pdf_url moves off oldURL. Empty when nothing should be deleted: no
// previous PDF, the URL did not change, or it lives outside bucket.
func replacedPDFObject(oldURL, newURL, bucket string) string {
	if oldURL == "" || oldURL == newURL {
		return ""
	}
	return storage.ObjectNameFromURL(oldURL, bucket)
}

// ArchiveJobHandler flips the job and cascades over its applications.
func ArchiveJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := jobRepo.ArchiveJob(vars["id"]); err != nil {
			svr.Log(err, "unable to archive job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "archived"})
	}
}

func RepairArchiveCascadesHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		affected, err := jobRepo.RepairArchiveCascades()
		if err != nil {
			svr.Log(err, "unable to repair archive cascades")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]int64{"rows_affected": affected})
	}
}

// DeleteJobHandler is the hard delete: the stored description PDF is
// released first, then the row goes.
func DeleteJobHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		j, err := jobRepo.GetByID(vars["id"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		bucket := svr.GetConfig().JobPDFBucket
		if objectName := replacedPDFObject(j.PDFURL, "", bucket); objectName != "" {
			if err := svr.GetStorage().DeleteObject(bucket, objectName); err != nil {
				svr.Log(err, "unable to delete job pdf object, row delete proceeds")
			}
		}
		if err := jobRepo.Delete(j.ID); err != nil {
			svr.Log(err, "unable to delete job")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
