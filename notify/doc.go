// Package notify sends anomaly alerts by e-mail.
//
// New picks the Mailgun sender when MAILGUN_DOMAIN and MAILGUN_API_KEY are
// set and a logging NoOp sender otherwise, so jobs never need to check.
// RenderSummary builds the HTML body of the anomaly summary mail.
package notify
