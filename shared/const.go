package shared

import "time"

const (
	RoleDeveloper      = "Developer"
	RoleComputeNetwork = "Decentralized Compute Network"
	RoleGPUProvider    = "GPU Provider"
	RoleInvestor       = "Investor"
	RoleOther          = "Other"

	StageSeed    = "Seed"
	StageSeriesA = "Series A"
	StageSeriesB = "Series B and beyond"
	StageAll     = "All stages"
)

// DuplicateEmailTTL is how long an accepted email blocks re-registration.
const DuplicateEmailTTL = 30 * 24 * time.Hour

func Roles() []string {
	return []string{RoleDeveloper, RoleComputeNetwork, RoleGPUProvider, RoleInvestor, RoleOther}
}

func InvestorStages() []string {
	return []string{StageSeed, StageSeriesA, StageSeriesB, StageAll}
}
