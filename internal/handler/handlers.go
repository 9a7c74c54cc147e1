package handler

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
	"github.com/careersdesk/portal/internal/email"
	"github.com/careersdesk/portal/internal/job"
	"github.com/careersdesk/portal/internal/server"
	"github.com/careersdesk/portal/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"
	"github.com/snabb/sitemap"
)

const maxResumeSize = 4 * 1024 * 1024

// ActiveJobsHandler lists every open position. The list is the busiest
// public read so it is served from cache.
func ActiveJobsHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var jobs []job.Job
		cached, ok := svr.CacheGet(server.CacheKeyActiveJobs)
		if ok {
			dec := gob.NewDecoder(bytes.NewReader(cached))
			if err := dec.Decode(&jobs); err == nil {
				svr.JSON(w, http.StatusOK, jobs)
				return
			}
			svr.Log(errors.New("corrupted cache entry"), "unable to decode cached active jobs")
		}
		jobs, err := jobRepo.ListByStatus(job.StatusActive)
		if err != nil {
			svr.Log(err, "unable to retrieve active jobs")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		for i, j := range jobs {
			jobs[i].CreatedAtHumanized = humanize.Time(j.CreatedAt.UTC())
		}
		buf := &bytes.Buffer{}
		if err := gob.NewEncoder(buf).Encode(jobs); err != nil {
			svr.Log(err, "unable to encode active jobs")
		} else if err := svr.CacheSet(server.CacheKeyActiveJobs, buf.Bytes()); err != nil {
			svr.Log(err, "unable to cache active jobs")
		}
		svr.JSON(w, http.StatusOK, jobs)
	}
}

func JobBySlugHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		j, err := jobRepo.GetBySlug(vars["slug"])
		if err != nil {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		if j.Status != job.StatusActive {
			svr.JSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
			return
		}
		j.JobDescriptionHTML = svr.MarkdownToHTML(j.JobDescription)
		j.CreatedAtHumanized = humanize.Time(j.CreatedAt.UTC())
		svr.JSON(w, http.StatusOK, j)
	}
}

// FormFieldsHandler tells the public form which inputs to render. A
// broken definitions table must never take the form down, so it falls
// back to the built-in set.
func FormFieldsHandler(svr server.Server, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols, err := columnRepo.ListFormColumns()
		if err != nil || len(cols) == 0 {
			if err != nil {
				svr.Log(err, "unable to retrieve form columns, serving defaults")
			}
			cols = column.DefaultFormColumns()
		}
		svr.JSON(w, http.StatusOK, cols)
	}
}

var requiredFormFields = []string{
	"full_name", "batch", "gender", "email_official",
	"email_personal", "phone_number", "fellowship_state", "home_state",
}

func ApplyForJobHandler(svr server.Server, jobRepo *job.Repository, appRepo *application.Repository, columnRepo *column.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, int64(maxResumeSize))
		resume, header, err := r.FormFile("resume")
		if err != nil {
			svr.Log(err, "unable to read resume file")
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "resume is required and must be under 4MB"})
			return
		}
		defer resume.Close()
		fileBytes, err := ioutil.ReadAll(resume)
		if err != nil {
			svr.Log(err, "unable to read resume file content")
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "resume must be under 4MB"})
			return
		}
		contentType := http.DetectContentType(fileBytes)
		if contentType != "application/pdf" {
			svr.JSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "resume must be a PDF"})
			return
		}
		if header.Size > int64(maxResumeSize) {
			svr.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "resume must be under 4MB"})
			return
		}
		j, err := jobRepo.GetByID(r.FormValue("job_id"))
		if err != nil || j.Status != job.StatusActive {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "job is not open for applications"})
			return
		}
		for _, field := range requiredFormFields {
			if strings.TrimSpace(r.FormValue(field)) == "" {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("%s is required", field)})
				return
			}
		}
		if !svr.IsEmail(r.FormValue("email_official")) || !svr.IsEmail(r.FormValue("email_personal")) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
			return
		}
		app := application.Application{
			JobID:           j.ID,
			FullName:        r.FormValue("full_name"),
			Batch:           r.FormValue("batch"),
			Gender:          r.FormValue("gender"),
			EmailOfficial:   r.FormValue("email_official"),
			EmailPersonal:   r.FormValue("email_personal"),
			PhoneNumber:     r.FormValue("phone_number"),
			BigBet:          r.FormValue("big_bet"),
			FellowshipState: r.FormValue("fellowship_state"),
			HomeState:       r.FormValue("home_state"),
			FPCName:         r.FormValue("fpc_name"),
			StateSPOCName:   r.FormValue("state_spoc_name"),
			CoverLetter:     r.FormValue("cover_letter"),
		}
		// custom inputs on the public form land in the row's field bag
		formCols, err := columnRepo.ListFormColumns()
		if err != nil {
			svr.Log(err, "unable to retrieve form columns during submission")
		}
		for _, col := range formCols {
			if !col.IsCustom {
				continue
			}
			if v := strings.TrimSpace(r.FormValue(col.ID)); v != "" {
				app.CustomFields = app.CustomFields.Merge(col.ID, v)
			}
		}
		objectName := storage.SanitizeFilename(header.Filename)
		bucket := svr.GetConfig().ResumeBucket
		if err := svr.GetStorage().Upload(bucket, objectName, fileBytes, contentType); err != nil {
			svr.Log(err, "unable to upload resume to storage")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to store resume"})
			return
		}
		app.ResumeURL = svr.GetStorage().PublicURL(bucket, objectName)
		saved, err := appRepo.Insert(app)
		if err != nil {
			svr.Log(err, "unable to save application")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "unable to save application"})
			return
		}
		// notification is best effort, the application is already saved
		subject, html := email.ApplicationNotification(saved.FullName, saved.ReferenceNumber, j.Position, j.OrganisationName, j.Location)
		to := make([]email.Address, 0, len(svr.GetConfig().AdminEmails))
		for _, addr := range svr.GetConfig().AdminEmails {
			to = append(to, email.Address{Email: addr})
		}
		sender := email.Address{Name: svr.GetEmail().DefaultSenderName(), Email: svr.GetEmail().NoReplySenderAddress()}
		if err := svr.GetEmail().SendHTMLEmail(sender, to, subject, html); err != nil {
			svr.Log(err, "unable to send application notification email")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"reference_number": saved.ReferenceNumber})
	}
}

func SitemapHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := jobRepo.ListByStatus(job.StatusActive)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for sitemap")
			svr.TEXT(w, http.StatusInternalServerError, "unable to fetch sitemap")
			return
		}
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		now := time.Now().UTC()
		sitemapFile := sitemap.New()
		sitemapFile.Add(&sitemap.URL{Loc: base + "/jobs", LastMod: &now, ChangeFreq: sitemap.Daily})
		for _, j := range jobs {
			lastMod := j.UpdatedAt
			sitemapFile.Add(&sitemap.URL{
				Loc:        fmt.Sprintf("%s/job/%s", base, j.Slug),
				LastMod:    &lastMod,
				ChangeFreq: sitemap.Weekly,
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sitemapFile.WriteTo(buf); err != nil {
			svr.Log(err, "sitemapFile.WriteTo")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

func FeedHandler(svr server.Server, jobRepo *job.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := jobRepo.ListByStatus(job.StatusActive)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for feed")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		siteName := svr.GetConfig().SiteName
		now := time.Now()
		feed := &feeds.Feed{
			Title:       fmt.Sprintf("%s Open Positions", siteName),
			Link:        &feeds.Link{Href: base},
			Description: fmt.Sprintf("Latest open positions on %s", siteName),
			Author:      &feeds.Author{Name: siteName, Email: svr.GetEmail().NoReplySenderAddress()},
			Created:     now,
		}
		for _, j := range jobs {
			feed.Items = append(feed.Items, &feeds.Item{
				Title:       fmt.Sprintf("%s with %s - %s", j.Position, j.OrganisationName, j.Location),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s/job/%s", base, j.Slug)},
				Description: svr.MarkdownToHTML(j.JobDescription),
				Author:      &feeds.Author{Name: siteName, Email: svr.GetEmail().NoReplySenderAddress()},
				Created:     j.CreatedAt,
			})
		}
		rssFeed, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		svr.XML(w, http.StatusOK, []byte(rssFeed))
	}
}

func RobotsTxtHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		svr.TEXT(w, http.StatusOK, fmt.Sprintf("User-agent: *\nDisallow: /admin/\nSitemap: %s/sitemap.xml\n", base))
	}
}

func HealthCheckHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Conn.Ping(); err != nil {
			svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
