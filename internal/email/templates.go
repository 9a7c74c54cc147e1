package email

import "fmt"

// ApplicationNotification builds the admin alert sent on every public
// submission.
func ApplicationNotification(candidateName, referenceNumber, jobTitle, organisation, location string) (subject, html string) {
	subject = fmt.Sprintf("New application: %s for %s", candidateName, jobTitle)
	html = fmt.Sprintf(
		`<h2>New Job Application Received</h2>
<p><strong>Candidate:</strong> %s</p>
<p><strong>Reference Number:</strong> %s</p>
<p><strong>Position:</strong> %s</p>
<p><strong>Organisation:</strong> %s</p>
<p><strong>Location:</strong> %s</p>
<p>Sign in to the admin dashboard to review the application.</p>`,
		candidateName, referenceNumber, jobTitle, organisation, location,
	)
	return subject, html
}
