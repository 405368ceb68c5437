package environment

import "strings"

// Environment represents application environment.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Staging for pre-production deployments.
	Staging Environment = "staging"
	// Production for production deployments.
	Production Environment = "production"
	// Test for automated test runs.
	Test Environment = "test"
)

// Parse normalizes a raw environment name. Short aliases ("prod", "stage",
// "dev") are accepted; anything unrecognized is returned lower-cased as is,
// and an empty value falls back to Development.
func Parse(raw string) Environment {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "":
		return Development
	case "prod", string(Production):
		return Production
	case "stage", string(Staging):
		return Staging
	case "dev", string(Development):
		return Development
	case string(Test):
		return Test
	default:
		return Environment(v)
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool { return e == Production }

// IsDevelopment reports whether e is the development environment.
func (e Environment) IsDevelopment() bool { return e == Development }

// IsStaging reports whether e is the staging environment.
func (e Environment) IsStaging() bool { return e == Staging }

func (e Environment) String() string { return string(e) }
