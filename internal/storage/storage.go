package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Client talks to the object storage HTTP API holding uploaded
// resumes. The portal never inspects file content, it only stores,
// links and deletes objects by name.
type Client struct {
	client  http.Client
	apiKey  string
	baseURL string
}

func NewClient(endpoint, apiKey string) (Client, error) {
	return Client{
		client:  *http.DefaultClient,
		apiKey:  apiKey,
		baseURL: endpoint,
	}, nil
}

// SanitizeFilename strips characters that break URLs and prefixes a
// millisecond timestamp so two uploads of the same file never collide.
func SanitizeFilename(original string) string {
	safe := unsafeFilenameChars.ReplaceAllString(original, "_")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safe)
}

func (c Client) Upload(bucket, objectName string, data []byte, contentType string) error {
	req, err := http.NewRequest(http.MethodPost, c.objectURL(bucket, objectName), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", contentType)
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return errors.New(fmt.Sprintf("got status code %d when uploading %s: err %s", res.StatusCode, objectName, string(errBody)))
	}
	return nil
}

// PublicURL is the externally-resolvable link stored on the row.
func (c Client) PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, objectName)
}

func (c Client) DeleteObject(bucket, objectName string) error {
	req, err := http.NewRequest(http.MethodDelete, c.objectURL(bucket, objectName), nil)
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest && res.StatusCode != http.StatusNotFound {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return errors.New(fmt.Sprintf("got status code %d when deleting %s: err %s", res.StatusCode, objectName, string(errBody)))
	}
	return nil
}

// ObjectNameFromURL recovers the object name from a stored public URL
// so a hard-deleted row can release its file.
func ObjectNameFromURL(publicURL, bucket string) string {
	marker := fmt.Sprintf("/%s/", bucket)
	idx := len(publicURL)
	for i := 0; i+len(marker) <= len(publicURL); i++ {
		if publicURL[i:i+len(marker)] == marker {
			idx = i + len(marker)
			break
		}
	}
	if idx >= len(publicURL) {
		return ""
	}
	return publicURL[idx:]
}

func (c Client) objectURL(bucket, objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, objectName)
}
