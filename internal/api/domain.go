package api

import (
	"github.com/JaimeStill/finsight/internal/alerts"
	"github.com/JaimeStill/finsight/internal/assessments"
	"github.com/JaimeStill/finsight/internal/documents"
	"github.com/JaimeStill/finsight/internal/policy"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Alerts      alerts.System
	Assessments assessments.System
	Documents   documents.System
	Policy      policy.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	alertsSystem := alerts.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	policySystem := policy.New(
		db,
		runtime.Logger,
		runtime.Analysis.Batch.Concurrency,
	)

	assessmentsSystem := assessments.New(
		runtime.Engine,
		docsSystem,
		policySystem,
		runtime.Analysis,
		runtime.Logger,
	)

	return &Domain{
		Alerts:      alertsSystem,
		Assessments: assessmentsSystem,
		Documents:   docsSystem,
		Policy:      policySystem,
	}
}
