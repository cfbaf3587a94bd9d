// models/validation.go
package models

// Issue is one advisory compliance finding surfaced to the reviewer.
// Issues never block a decision; the reviewer weighs them.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	issueMissingWorkType      = Issue{Code: "missing_work_type", Message: "work type not specified"}
	issueMissingStartDate     = Issue{Code: "missing_start_date", Message: "start date not specified"}
	issueMissingApplicantName = Issue{Code: "missing_applicant_name", Message: "applicant name not specified"}
	issueEmptyWorkDetails     = Issue{Code: "empty_work_details", Message: "work details not specified"}
	issueEmptySafety          = Issue{Code: "empty_safety_compliance", Message: "safety compliance measures not specified"}
	issueEmptyPPE             = Issue{Code: "empty_ppe_requirements", Message: "PPE requirements not specified"}
)

// ValidatePermit derives the ordered list of compliance issues for a
// permit. It is a pure function of the record: same input, same output,
// same order. Rules do not short-circuit — a completely empty permit
// yields every finding. The rule order is part of the contract; the
// review screen shows issues in exactly this sequence.
func ValidatePermit(p *WorkPermit) []Issue {
	issues := []Issue{}

	if p.WorkType == "" {
		issues = append(issues, issueMissingWorkType)
	}
	if p.StartDate == "" {
		issues = append(issues, issueMissingStartDate)
	}
	if p.ApplicantName == "" {
		issues = append(issues, issueMissingApplicantName)
	}

	if !DecodeWorkDetails(p.WorkDetails).AnyChecked() {
		issues = append(issues, issueEmptyWorkDetails)
	}
	if !DecodeSafetyCompliance(p.SafetyCompliance).AnyChecked() {
		issues = append(issues, issueEmptySafety)
	}
	if !DecodePPERequirements(p.PPERequirements).AnyChecked() {
		issues = append(issues, issueEmptyPPE)
	}

	return issues
}
