// Package workflow coordinates background queue processing. A manager polls
// the queue store for jobs whose status matches a registered stage, claims
// them with a guarded status transition, and runs the stage handler through
// its Prepare and Execute phases. Failures are classified into failed or
// review via the services error markers.
package workflow
