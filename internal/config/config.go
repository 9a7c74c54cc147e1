package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port             string
	DatabaseUser     string
	DatabasePassword string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseSSLMode  string
	EmailAPIKey      string
	AdminEmails      []string // recipients of new-application notifications
	NoReplyEmail     string   // used for transactional emails
	StorageEndpoint  string   // object storage base URL
	StorageAPIKey    string
	ResumeBucket     string
	JobPDFBucket     string
	SessionKey       []byte
	JwtSigningKey    []byte
	Env              string // either prod or dev, will disable https and few other bits
	SentryDSN        string
	SiteName         string
	SiteHost         string
	URLProtocol      string
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty")
	}
	adminEmailsStr := os.Getenv("ADMIN_EMAILS")
	if adminEmailsStr == "" {
		return Config{}, fmt.Errorf("ADMIN_EMAILS cannot be empty")
	}
	adminEmails := make([]string, 0)
	for _, e := range strings.Split(adminEmailsStr, ",") {
		if e = strings.TrimSpace(e); e != "" {
			adminEmails = append(adminEmails, e)
		}
	}
	if len(adminEmails) == 0 {
		return Config{}, fmt.Errorf("ADMIN_EMAILS cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	storageEndpoint := os.Getenv("STORAGE_ENDPOINT")
	if storageEndpoint == "" {
		return Config{}, fmt.Errorf("STORAGE_ENDPOINT cannot be empty")
	}
	storageAPIKey := os.Getenv("STORAGE_API_KEY")
	if storageAPIKey == "" {
		return Config{}, fmt.Errorf("STORAGE_API_KEY cannot be empty")
	}
	resumeBucket := os.Getenv("RESUME_BUCKET")
	if resumeBucket == "" {
		resumeBucket = "resumes"
	}
	jobPDFBucket := os.Getenv("JOB_PDF_BUCKET")
	if jobPDFBucket == "" {
		jobPDFBucket = "job-pdfs"
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:             port,
		DatabaseUser:     databaseUser,
		DatabasePassword: databasePassword,
		DatabaseHost:     databaseHost,
		DatabasePort:     databasePort,
		DatabaseName:     databaseName,
		DatabaseSSLMode:  databaseSSLMode,
		EmailAPIKey:      emailAPIKey,
		AdminEmails:      adminEmails,
		NoReplyEmail:     noReplyEmail,
		StorageEndpoint:  storageEndpoint,
		StorageAPIKey:    storageAPIKey,
		ResumeBucket:     resumeBucket,
		JobPDFBucket:     jobPDFBucket,
		SessionKey:       sessionKeyBytes,
		JwtSigningKey:    jwtSigningKeyBytes,
		Env:              env,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SiteName:         siteName,
		SiteHost:         siteHost,
		URLProtocol:      urlProtocol,
	}, nil
}
