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
	ProviderName = "webshop-api"
	ConsumerName = "webshop-storefront"

	StateCatalogBaseline = "catalog baseline"
	StateBeerExists      = "beer with id 101 exists"
	StateBeerMissing     = "no beer with id 404"
	StateCustomerExists  = "customer with id 501 exists"
)

const (
	ExistingBeerID     int64 = 101
	MissingBeerID      int64 = 404
	ExistingCustomerID int64 = 501
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleBeerPayload provides stable test data for catalog interactions.
func ExampleBeerPayload() map[string]any {
	return map[string]any{
		"name":       "Pact Porter",
		"brand":      "Contract Brewing",
		"percentage": 5.5,
		"price":      3.25,
		"type":       "dark",
	}
}

// ExampleCustomerPayload provides stable test data for customer interactions.
func ExampleCustomerPayload() map[string]any {
	return map[string]any{
		"id":          ExistingCustomerID,
		"firstName":   "Pact",
		"lastName":    "Customer",
		"email":       "pact.customer@example.com",
		"address":     "1 Contract Street",
		"phoneNumber": "+1234567890",
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
