package models

// All returns every model managed by AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AuditLog{},
		&Household{},
		&BHWProfile{},
		&Resident{},
		&Certificate{},
		&Incident{},
		&MedicalRecord{},
		&Vaccination{},
		&EvacuationCenter{},
		&Evacuee{},
		&SeniorCitizenID{},
		&SeniorCitizenBenefit{},
		&BHWVisitLog{},
		&Budget{},
		&Expense{},
	}
}
