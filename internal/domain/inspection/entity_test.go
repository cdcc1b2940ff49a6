// internal/domain/inspection/entity_test.go
package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInspectionBatch(t *testing.T) {
	b, err := NewInspectionBatch(" p-1 ", InspectionStatusInspecting, []string{"u-1", " u-2 ", "u-1", ""})
	require.NoError(t, err)

	assert.Equal(t, "p-1", b.ProductionID)
	// trim + 重複/空の除去
	require.Len(t, b.Inspections, 2)
	assert.Equal(t, "u-1", b.Inspections[0].ProductID)
	assert.Equal(t, "u-2", b.Inspections[1].ProductID)
	// 初期状態は全件 notYet
	for _, it := range b.Inspections {
		require.NotNil(t, it.InspectionResult)
		assert.Equal(t, InspectionNotYet, *it.InspectionResult)
	}
}

func TestNewInspectionBatch_Invalid(t *testing.T) {
	_, err := NewInspectionBatch("", InspectionStatusNotYet, []string{"u-1"})
	assert.ErrorIs(t, err, ErrInvalidProductionID)

	_, err = NewInspectionBatch("p-1", "bogus", []string{"u-1"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = NewInspectionBatch("p-1", InspectionStatusNotYet, nil)
	assert.ErrorIs(t, err, ErrInvalidProductIDs)
}

func TestNewInspectionBatch_EmptyStatusDefaultsToNotYet(t *testing.T) {
	b, err := NewInspectionBatch("p-1", "", []string{"u-1"})
	require.NoError(t, err)
	assert.Equal(t, InspectionStatusNotYet, b.Status)
}

func TestPassedCountAndQuantity(t *testing.T) {
	b, err := NewInspectionBatch("p-1", InspectionStatusInspecting, []string{"u-1", "u-2", "u-3"})
	require.NoError(t, err)

	by := "inspector-1"
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	passed := InspectionPassed
	failed := InspectionFailed
	b.Inspections[0].InspectionResult = &passed
	b.Inspections[0].InspectedBy = &by
	b.Inspections[0].InspectedAt = &at
	b.Inspections[1].InspectionResult = &failed
	b.Inspections[1].InspectedBy = &by
	b.Inspections[1].InspectedAt = &at
	// Inspections[2] は notYet のまま

	// passed 件数がミント予定数、item 数が生産数
	assert.Equal(t, 1, b.PassedCount())
	assert.Equal(t, 3, b.Quantity())
	assert.NoError(t, b.Validate())
}

func TestValidate_PassedRequiresInspectorAndTime(t *testing.T) {
	b, err := NewInspectionBatch("p-1", InspectionStatusInspecting, []string{"u-1"})
	require.NoError(t, err)

	passed := InspectionPassed
	b.Inspections[0].InspectionResult = &passed
	// InspectedBy / InspectedAt 無し

	assert.Error(t, b.Validate())
}
