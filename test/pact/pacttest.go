//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "adoption-api"
	ConsumerName = "adoption-portal"

	StateAnimalAvailable = "animal A-101 is available"
	StateAnimalAdopted   = "animal A-202 is adopted"
	StateAnimalMissing   = "no animal with id A-404"
	StateRequestInReview = "adoption request R-301 is in review for animal A-101"
)

const (
	AvailableAnimalID = "A-101"
	AdoptedAnimalID   = "A-202"
	MissingAnimalID   = "A-404"
	InReviewRequestID = "R-301"

	// AdminToken is accepted by the provider's static staff gate.
	AdminToken = "pact-admin-token"
	AdminID    = "staff-pact-admin"
)

const (
	exampleApplicantName  = "Pact Applicant"
	exampleApplicantEmail = "applicant@example.pact"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the adoption portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleApplicantProfile provides stable applicant data for submissions.
func ExampleApplicantProfile() map[string]any {
	return map[string]any{
		"name":  exampleApplicantName,
		"email": exampleApplicantEmail,
	}
}

// ExampleSubmission builds a submission payload for the given animal.
func ExampleSubmission(animalID string) map[string]any {
	return map[string]any{
		"animalId":         animalID,
		"applicantProfile": ExampleApplicantProfile(),
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
