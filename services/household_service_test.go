package services

import (
	"testing"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHouseholdCRUD(t *testing.T) {
	conn := setupTestDB(t)

	household, err := CreateHousehold(conn, HouseholdInput{HouseholdNumber: "HH-2025-001", HeadName: "Lapu Lapu", Address: "Mactan", Purok: "Purok 5", Is4PsBeneficiary: true})
	require.NoError(t, err)
	assert.NotZero(t, household.ID)

	_, err = CreateHousehold(conn, HouseholdInput{HouseholdNumber: "HH-2025-001", HeadName: "Other", Address: "Else"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = CreateHousehold(conn, HouseholdInput{HouseholdNumber: "HH-2", Address: "Else"})
	assert.ErrorIs(t, err, ErrValidation)

	member, err := CreateResident(conn, ResidentInput{FirstName: "Datu", LastName: "Lapu", Address: "Mactan", HouseholdID: &household.ID})
	require.NoError(t, err)

	members, err := GetHouseholdMembers(conn, household.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	yes := true
	list, total, err := GetHouseholds(conn, HouseholdFilters{Is4PsBeneficiary: &yes, Keyword: "lapu"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	updated, err := UpdateHousehold(conn, household.ID, HouseholdInput{HouseholdNumber: "HH-2025-001", HeadName: "Lapu Lapu", Address: "Opon", MonthlyIncome: 12000})
	require.NoError(t, err)
	assert.Equal(t, "Opon", updated.Address)
	assert.False(t, updated.Is4PsBeneficiary)

	// Members survive and are detached
	require.NoError(t, DeleteHousehold(conn, household.ID))
	var kept models.Resident
	require.NoError(t, conn.First(&kept, member.ID).Error)
	assert.Nil(t, kept.HouseholdID)

	assert.ErrorIs(t, DeleteHousehold(conn, household.ID), ErrHouseholdNotFound)
	_, err = GetHouseholdMembers(conn, household.ID)
	assert.ErrorIs(t, err, ErrHouseholdNotFound)
}
