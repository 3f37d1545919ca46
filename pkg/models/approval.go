package models

// ApprovalResult is a gate verdict. Only Approved=true lets a workflow move
// forward; a rejection carries the feedback shown to the user.
type ApprovalResult struct {
	Approved     bool     `json:"approved"`
	Reasons      []string `json:"reasons"`
	RiskFlags    []string `json:"risk_flags"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
}
