package services

import (
	"errors"
	"fmt"
	"strings"

	"barangay_app_go/logger"
	"barangay_app_go/metrics"
	"barangay_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resident delete errors
var (
	ErrResidentNotFound      = errors.New("resident not found")
	ErrResidentHasDependents = errors.New("resident has dependent records")
)

// DeletePolicy says what happens to a dependent row when its resident goes.
type DeletePolicy int

const (
	// PolicyDelete removes the dependent rows.
	PolicyDelete DeletePolicy = iota
	// PolicyNullify keeps the rows and clears the reference.
	PolicyNullify
)

func (p DeletePolicy) String() string {
	if p == PolicyNullify {
		return "nullify"
	}
	return "delete"
}

// Dependent describes one category of rows that reference a parent row.
type Dependent struct {
	// Label is shown to users when the category blocks a delete.
	Label string
	// Model returns a fresh pointer to the dependent model.
	Model func() interface{}
	// Column is the referencing column on the dependent table.
	Column string
	Policy DeletePolicy
	// Blocking categories stop a safe delete when rows exist.
	Blocking bool
	// Children are removed or detached before their parent rows are deleted.
	// Their Column references the dependent table's id.
	Children []Dependent
}

// ResidentDependents is the single registry of everything that references a
// resident. Both the blocking check and the force-delete unwind walk it in
// order, so adding a referencing model means adding one entry here.
var ResidentDependents = []Dependent{
	{Label: "certificates", Model: func() interface{} { return &models.Certificate{} }, Column: "resident_id", Policy: PolicyDelete, Blocking: true},
	{Label: "medical records", Model: func() interface{} { return &models.MedicalRecord{} }, Column: "resident_id", Policy: PolicyDelete, Blocking: true},
	{Label: "vaccinations", Model: func() interface{} { return &models.Vaccination{} }, Column: "resident_id", Policy: PolicyDelete, Blocking: true},
	{Label: "evacuees", Model: func() interface{} { return &models.Evacuee{} }, Column: "resident_id", Policy: PolicyDelete, Blocking: true},
	{Label: "incidents", Model: func() interface{} { return &models.Incident{} }, Column: "complainant_id", Policy: PolicyNullify, Blocking: true},
	{Label: "incidents", Model: func() interface{} { return &models.Incident{} }, Column: "respondent_id", Policy: PolicyNullify, Blocking: true},
	{
		Label:    "senior citizen ID",
		Model:    func() interface{} { return &models.SeniorCitizenID{} },
		Column:   "resident_id",
		Policy:   PolicyDelete,
		Blocking: true,
		Children: []Dependent{
			{Label: "senior citizen benefits", Model: func() interface{} { return &models.SeniorCitizenBenefit{} }, Column: "senior_citizen_card_id", Policy: PolicyDelete},
		},
	},
	{Label: "BHW visit logs", Model: func() interface{} { return &models.BHWVisitLog{} }, Column: "resident_id", Policy: PolicyNullify},
}

// DeleteBlockedError is returned by a safe delete when blocking dependents exist.
type DeleteBlockedError struct {
	ResidentID uint
	Reasons    []string
}

func (e *DeleteBlockedError) Error() string {
	return fmt.Sprintf("cannot delete resident %d: has related %s", e.ResidentID, strings.Join(e.Reasons, ", "))
}

// Is matches ErrResidentHasDependents
func (e *DeleteBlockedError) Is(target error) bool {
	return target == ErrResidentHasDependents
}

// DependentCount is the number of rows in one dependent category.
type DependentCount struct {
	Label    string `json:"label"`
	Count    int64  `json:"count"`
	Blocking bool   `json:"blocking"`
	Policy   string `json:"policy"`
}

// deleteState tracks the resident delete flow for logging.
type deleteState string

const (
	deleteStateRequested  deleteState = "requested"
	deleteStateChecking   deleteState = "checking"
	deleteStateBlocked    deleteState = "blocked"
	deleteStateProceeding deleteState = "proceeding"
	deleteStateCommitted  deleteState = "committed"
	deleteStateFailed     deleteState = "failed"
)

// CountResidentDependents counts rows in every registered category,
// blocking or not, in registry order. Categories sharing a label are summed.
func CountResidentDependents(db *gorm.DB, residentID uint) ([]DependentCount, error) {
	if err := residentExists(db, residentID); err != nil {
		return nil, err
	}

	var counts []DependentCount
	index := make(map[string]int)
	for _, dep := range ResidentDependents {
		var n int64
		if err := db.Model(dep.Model()).Where(dep.Column+" = ?", residentID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", dep.Label, err)
		}
		if i, ok := index[dep.Label]; ok {
			counts[i].Count += n
			continue
		}
		index[dep.Label] = len(counts)
		counts = append(counts, DependentCount{
			Label:    dep.Label,
			Count:    n,
			Blocking: dep.Blocking,
			Policy:   dep.Policy.String(),
		})
	}
	return counts, nil
}

// CheckResidentDependents returns the labels of blocking categories that have
// rows for the resident, in registry order and without duplicates.
// An empty result means a safe delete would go through.
func CheckResidentDependents(db *gorm.DB, residentID uint) ([]string, error) {
	if err := residentExists(db, residentID); err != nil {
		return nil, err
	}
	return blockingReasons(db, residentID)
}

// DeleteResident removes a resident.
//
// Safe mode (force=false) refuses with a *DeleteBlockedError when any blocking
// category has rows; non-blocking references are detached. Force mode unwinds
// every category per its policy, children first, then deletes the resident.
// Everything runs in one transaction: on any error nothing is changed.
// A foreign key the registry does not know about surfaces as
// ErrRelatedRecordsExist.
func DeleteResident(db *gorm.DB, residentID uint, force bool) error {
	mode := "safe"
	if force {
		mode = "force"
	}
	log := logger.L.With(zap.Uint("resident_id", residentID), zap.String("mode", mode))
	log.Debug("resident delete", zap.String("state", string(deleteStateRequested)))

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := residentExists(tx, residentID); err != nil {
			return err
		}

		if !force {
			log.Debug("resident delete", zap.String("state", string(deleteStateChecking)))
			reasons, err := blockingReasons(tx, residentID)
			if err != nil {
				return err
			}
			if len(reasons) > 0 {
				return &DeleteBlockedError{ResidentID: residentID, Reasons: reasons}
			}
		}

		log.Debug("resident delete", zap.String("state", string(deleteStateProceeding)))
		for _, dep := range ResidentDependents {
			// Blocking categories were just verified empty.
			if !force && dep.Blocking {
				continue
			}
			if err := unwindDependent(tx, dep, dep.Column+" = ?", residentID); err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Resident{}, residentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrResidentNotFound
		}
		return nil
	})

	var blocked *DeleteBlockedError
	switch {
	case err == nil:
		log.Info("resident deleted", zap.String("state", string(deleteStateCommitted)))
		metrics.Default.IncrementResidentDeletion(mode, "committed")
		return nil
	case errors.As(err, &blocked):
		log.Info("resident delete blocked",
			zap.String("state", string(deleteStateBlocked)),
			zap.Strings("reasons", blocked.Reasons),
		)
		metrics.Default.IncrementResidentDeletion(mode, "blocked")
		return blocked
	case errors.Is(err, ErrResidentNotFound):
		return err
	case isForeignKeyViolation(err):
		log.Warn("resident delete rejected by storage",
			zap.String("state", string(deleteStateFailed)),
			zap.Error(err),
		)
		metrics.Default.IncrementResidentDeletion(mode, "failed")
		return ErrRelatedRecordsExist
	default:
		log.Error("resident delete failed",
			zap.String("state", string(deleteStateFailed)),
			zap.Error(err),
		)
		metrics.Default.IncrementResidentDeletion(mode, "failed")
		return fmt.Errorf("failed to delete resident: %w", err)
	}
}

func residentExists(db *gorm.DB, residentID uint) error {
	var count int64
	if err := db.Model(&models.Resident{}).Where("id = ?", residentID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up resident: %w", err)
	}
	if count == 0 {
		return ErrResidentNotFound
	}
	return nil
}

func blockingReasons(db *gorm.DB, residentID uint) ([]string, error) {
	var reasons []string
	seen := make(map[string]bool)
	for _, dep := range ResidentDependents {
		if !dep.Blocking || seen[dep.Label] {
			continue
		}
		var n int64
		err := db.Model(dep.Model()).Where(dep.Column+" = ?", residentID).Count(&n).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", dep.Label, err)
		}
		if n > 0 {
			seen[dep.Label] = true
			reasons = append(reasons, dep.Label)
		}
	}
	return reasons, nil
}

// unwindDependent applies dep's policy to the rows matching where/args,
// handling its children first so no row is left pointing at a deleted parent.
func unwindDependent(tx *gorm.DB, dep Dependent, where string, args ...interface{}) error {
	for _, child := range dep.Children {
		parents := tx.Model(dep.Model()).Select("id").Where(where, args...)
		if err := unwindDependent(tx, child, child.Column+" IN (?)", parents); err != nil {
			return err
		}
	}

	switch dep.Policy {
	case PolicyNullify:
		if err := tx.Model(dep.Model()).Where(where, args...).Update(dep.Column, nil).Error; err != nil {
			return fmt.Errorf("failed to detach %s: %w", dep.Label, err)
		}
	default:
		if err := tx.Where(where, args...).Delete(dep.Model()).Error; err != nil {
			return fmt.Errorf("failed to delete %s: %w", dep.Label, err)
		}
	}
	return nil
}
