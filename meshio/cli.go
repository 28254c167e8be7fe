package meshio

// Exit codes for the meshopt-style applications of §6. The CLI
// wrappers themselves are a Non-goal (§1); these constants exist so a
// host program driving this module's solvers/rumpf optimiser can report
// status consistently with the original applications' contract.
const (
	ExitConverged    = 0
	ExitTestAssertFailed = 1
	ExitError        = 2
)

// FeatSrcDirEnv is the environment variable §6 names for locating test
// meshes in --test mode.
const FeatSrcDirEnv = "FEAT_SRC_DIR"
