package services

import (
	"testing"

	"barangay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvacuationCenters(t *testing.T) {
	conn := setupTestDB(t)

	center, err := CreateCenter(conn, CenterInput{Name: "Barangay Covered Court", Address: "Poblacion", Capacity: 2})
	require.NoError(t, err)
	assert.True(t, center.IsActive)

	_, err = CreateCenter(conn, CenterInput{Name: "Barangay Covered Court", Address: "Elsewhere", Capacity: 10})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = CreateCenter(conn, CenterInput{Name: "School", Address: "Purok 2"})
	assert.ErrorIs(t, err, ErrValidation)

	r1 := createTestResident(t, conn, "Uno", "Cruz")
	r2 := createTestResident(t, conn, "Dos", "Cruz")
	r3 := createTestResident(t, conn, "Tres", "Cruz")

	e1, err := CheckInEvacuee(conn, CheckInInput{ResidentID: r1.ID, CenterID: center.ID})
	require.NoError(t, err)
	assert.Equal(t, models.EvacueeStatusCheckedIn, e1.Status)

	_, err = CheckInEvacuee(conn, CheckInInput{ResidentID: r1.ID, CenterID: center.ID})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	_, err = CheckInEvacuee(conn, CheckInInput{ResidentID: r2.ID, CenterID: center.ID, Notes: "With infant"})
	require.NoError(t, err)

	_, err = CheckInEvacuee(conn, CheckInInput{ResidentID: r3.ID, CenterID: center.ID})
	assert.ErrorIs(t, err, ErrCenterFull)

	centers, total, err := GetCenters(conn, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2), centers[0].Occupants)
	assert.Equal(t, int64(0), centers[0].Available)

	out, err := CheckOutEvacuee(conn, e1.ID)
	require.NoError(t, err)
	assert.NotNil(t, out.CheckedOutAt)
	_, err = CheckOutEvacuee(conn, e1.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)

	_, err = CheckInEvacuee(conn, CheckInInput{ResidentID: r3.ID, CenterID: center.ID})
	require.NoError(t, err)

	evacuees, total, err := GetEvacuees(conn, &center.ID, models.EvacueeStatusCheckedIn, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, evacuees[0].Resident)

	no := false
	_, err = UpdateCenter(conn, center.ID, CenterInput{Name: "Barangay Covered Court", Address: "Poblacion", Capacity: 50, IsActive: &no})
	require.NoError(t, err)
	_, err = CheckInEvacuee(conn, CheckInInput{ResidentID: r1.ID, CenterID: center.ID})
	assert.ErrorIs(t, err, ErrCenterInactive)

	// Evacuee records go with the center
	require.NoError(t, DeleteCenter(conn, center.ID))
	assert.Zero(t, countRows(t, conn, &models.Evacuee{}, "center_id = ?", center.ID))
}
