package journal

import "time"

// Profile is the legal/case header shown on exported reports.
type Profile struct {
	PatientName string    `json:"patientName"`
	CaseNumber  string    `json:"caseNumber,omitempty"`
	InjuryDate  string    `json:"injuryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Attorney    string    `json:"attorney,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidateProfile checks the profile form.
func ValidateProfile(p Profile) error {
	if err := validatorInstance().Struct(p); err != nil {
		return wrapValidation(err)
	}
	return nil
}
