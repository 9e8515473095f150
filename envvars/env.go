package envvars

import (
	"log"
	"os"
)

const (
	GCPProject    = "GCP_PROJECT"
	Environment   = "ENVIRONMENT"
	AlgoliaAppID  = "ALGOLIA_APP_ID"
	AlgoliaAPIKey = "ALGOLIA_API_KEY"
	PushEndpoint  = "PUSH_ENDPOINT"
	PushAPIKey    = "PUSH_API_KEY"
	ReportsBucket = "REPORTS_BUCKET"
)

const (
	DevEnv        = "dev"
	ProductionEnv = "production"
)

type Env struct {
	ProjectID     string
	Environment   string
	AlgoliaAppID  string
	AlgoliaAPIKey string
	PushEndpoint  string
	PushAPIKey    string
	ReportsBucket string
}

func GetEvn() Env {
	projectID, ok := os.LookupEnv(GCPProject)
	if !ok {
		log.Fatalf("%s required", GCPProject)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	return Env{
		ProjectID:     projectID,
		Environment:   environment,
		AlgoliaAppID:  os.Getenv(AlgoliaAppID),
		AlgoliaAPIKey: os.Getenv(AlgoliaAPIKey),
		PushEndpoint:  os.Getenv(PushEndpoint),
		PushAPIKey:    os.Getenv(PushAPIKey),
		ReportsBucket: os.Getenv(ReportsBucket),
	}
}

func IsProd(env Env) bool {
	return env.Environment == ProductionEnv
}

func IsDev(env Env) bool {
	return env.Environment == DevEnv
}
