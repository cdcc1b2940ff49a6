// internal/domain/mintRequest/entity_test.go
package mintrequest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var (
	baseCreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	baseReqAt     = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	baseMintedAt  = time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
)

func validMinted() MintRequest {
	return MintRequest{
		ID:               "mr-1",
		TokenBlueprintID: "tb-1",
		ProductionID:     "p-1",
		MintQuantity:     5,
		Status:           StatusMinted,
		RequestedBy:      strPtr("crew-1"),
		RequestedAt:      timePtr(baseReqAt),
		MintedAt:         timePtr(baseMintedAt),
		CreatedAt:        baseCreatedAt,
		CreatedBy:        "crew-1",
		UpdatedAt:        baseMintedAt,
		UpdatedBy:        "crew-1",
	}
}

// ------------------------------------------------------------
// snapshot validation
// ------------------------------------------------------------

func TestValidate_ValidSnapshots(t *testing.T) {
	t.Run("minted", func(t *testing.T) {
		assert.NoError(t, validMinted().Validate())
	})

	t.Run("planning", func(t *testing.T) {
		mr, err := NewPlanning("mr-1", "tb-1", "p-1", 3, baseCreatedAt, "crew-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPlanning, mr.Status)
		assert.Nil(t, mr.RequestedBy)
	})

	t.Run("requested", func(t *testing.T) {
		mr := validMinted()
		mr.Status = StatusRequested
		mr.MintedAt = nil
		assert.NoError(t, mr.Validate())
	})
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	// minted だが mintedAt / requestedBy / requestedAt がすべて欠けている
	mr := validMinted()
	mr.RequestedBy = nil
	mr.RequestedAt = nil
	mr.MintedAt = nil

	err := mr.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// 最初の違反で止まらず全部返ること
	assert.Contains(t, verr.Violations, "requestedBy is required for status 'minted'")
	assert.Contains(t, verr.Violations, "requestedAt is required for status 'minted'")
	assert.Contains(t, verr.Violations, "mintedAt is required for status 'minted'")
	assert.Len(t, verr.Violations, 3)
}

func TestValidate_MintedRequiresMintedAt(t *testing.T) {
	mr := validMinted()
	mr.MintedAt = nil

	err := mr.Validate()
	require.Error(t, err)
	// 違反メッセージは欠けているフィールド名を指すこと
	assert.Contains(t, err.Error(), "mintedAt")
}

func TestValidate_RequestedRequiresRequestedBy(t *testing.T) {
	mr := validMinted()
	mr.Status = StatusRequested
	mr.MintedAt = nil
	mr.RequestedBy = nil

	err := mr.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requestedBy")
}

func TestValidate_PlanningForbidsRequestFields(t *testing.T) {
	mr := validMinted()
	mr.Status = StatusPlanning

	var verr *ValidationError
	require.ErrorAs(t, mr.Validate(), &verr)
	assert.Contains(t, verr.Violations, "requestedBy must be absent while status is 'planning'")
	assert.Contains(t, verr.Violations, "requestedAt must be absent while status is 'planning'")
	assert.Contains(t, verr.Violations, "mintedAt must be absent while status is 'planning'")
}

func TestValidate_TimestampOrdering(t *testing.T) {
	t.Run("mintedAt before requestedAt", func(t *testing.T) {
		mr := validMinted()
		mr.MintedAt = timePtr(baseReqAt.Add(-time.Hour))
		mr.UpdatedAt = baseCreatedAt

		var verr *ValidationError
		require.ErrorAs(t, mr.Validate(), &verr)
		assert.Contains(t, verr.Violations, "mintedAt must not be earlier than requestedAt")
	})

	t.Run("updatedAt before createdAt", func(t *testing.T) {
		mr := validMinted()
		mr.UpdatedAt = baseCreatedAt.Add(-time.Minute)

		var verr *ValidationError
		require.ErrorAs(t, mr.Validate(), &verr)
		assert.Contains(t, verr.Violations, "updatedAt must not be earlier than createdAt")
	})
}

func TestValidate_DeletedPair(t *testing.T) {
	mr := validMinted()
	mr.DeletedAt = timePtr(baseMintedAt.Add(time.Hour))
	// deletedBy 無し

	var verr *ValidationError
	require.ErrorAs(t, mr.Validate(), &verr)
	assert.Contains(t, verr.Violations, "deletedBy is required when deletedAt is set")

	mr.DeletedBy = strPtr("crew-9")
	assert.NoError(t, mr.Validate())
}

func TestValidate_RequiredIdentityFields(t *testing.T) {
	mr := validMinted()
	mr.ID = ""
	mr.TokenBlueprintID = " "
	mr.MintQuantity = 0

	// New 経由でなく直接組んだ場合も Violations で拾える
	vs := MintRequest{
		Status:    mr.Status,
		CreatedAt: mr.CreatedAt, CreatedBy: mr.CreatedBy,
		UpdatedAt: mr.UpdatedAt, UpdatedBy: mr.UpdatedBy,
		RequestedBy: mr.RequestedBy, RequestedAt: mr.RequestedAt, MintedAt: mr.MintedAt,
	}.Violations()
	assert.Contains(t, vs, "id is required")
	assert.Contains(t, vs, "tokenBlueprintId is required")
	assert.Contains(t, vs, "productionId is required")
	assert.Contains(t, vs, "mintQuantity must be greater than 0")
}

// ------------------------------------------------------------
// constructors
// ------------------------------------------------------------

func TestNew_NormalizesAndValidates(t *testing.T) {
	mr, err := New(
		"  mr-1 ", " tb-1 ", " p-1 ",
		2,
		nil,
		"",            // defaults to planning
		strPtr("   "), // blank optional -> nil
		nil, nil,
		baseCreatedAt, "crew-1",
		baseCreatedAt, "crew-1",
		nil, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "mr-1", mr.ID)
	assert.Equal(t, StatusPlanning, mr.Status)
	assert.Nil(t, mr.RequestedBy)
}

func TestNewFromStrings(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		mr, err := NewFromStrings(
			"mr-1", "tb-1", "p-1",
			3,
			"2026-12-31",
			StatusRequested,
			"crew-1",
			"2026-01-02T00:00:00Z",
			"",
			"2026-01-01T00:00:00Z", "crew-1",
			"2026-01-02T00:00:00Z", "crew-1",
			"", "",
		)
		require.NoError(t, err)
		assert.Equal(t, StatusRequested, mr.Status)
		require.NotNil(t, mr.BurnDate)
		assert.Equal(t, 2026, mr.BurnDate.Year())
	})

	t.Run("unparseable datetime becomes a violation", func(t *testing.T) {
		_, err := NewFromStrings(
			"mr-1", "tb-1", "p-1",
			3,
			"",
			StatusPlanning,
			"", "", "",
			"not-a-date", "crew-1",
			"2026-01-01T00:00:00Z", "crew-1",
			"", "",
		)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		found := false
		for _, v := range verr.Violations {
			if strings.HasPrefix(v, "createdAt must be a valid datetime") {
				found = true
			}
		}
		assert.True(t, found, "expected a createdAt violation, got %v", verr.Violations)
	})
}

// ------------------------------------------------------------
// transitions
// ------------------------------------------------------------

func TestTransitions(t *testing.T) {
	mr, err := NewPlanning("mr-1", "tb-1", "p-1", 3, baseCreatedAt, "crew-1")
	require.NoError(t, err)

	// planning 中のみ数量変更可
	require.NoError(t, mr.UpdateQuantity(7))
	assert.Equal(t, 7, mr.MintQuantity)
	assert.ErrorIs(t, mr.UpdateQuantity(0), ErrInvalidQuantity)

	// planning -> requested
	require.NoError(t, mr.Request("crew-2", baseReqAt))
	assert.Equal(t, StatusRequested, mr.Status)
	require.NotNil(t, mr.RequestedBy)
	assert.Equal(t, "crew-2", *mr.RequestedBy)
	assert.ErrorIs(t, mr.UpdateQuantity(1), ErrInvalidTransition)
	assert.ErrorIs(t, mr.Request("crew-3", baseReqAt), ErrInvalidTransition)

	// requested -> minted
	require.NoError(t, mr.MarkMinted(baseMintedAt))
	assert.Equal(t, StatusMinted, mr.Status)
	require.NotNil(t, mr.MintedAt)
	assert.NoError(t, mr.Validate())

	// minted は終端
	assert.ErrorIs(t, mr.MarkMinted(baseMintedAt), ErrInvalidTransition)
}

func TestRequest_RejectsBlankActorAndZeroTime(t *testing.T) {
	mr, err := NewPlanning("mr-1", "tb-1", "p-1", 3, baseCreatedAt, "crew-1")
	require.NoError(t, err)

	assert.ErrorIs(t, mr.Request("   ", baseReqAt), ErrInvalidRequestedBy)
	assert.ErrorIs(t, mr.Request("crew-2", time.Time{}), ErrInvalidRequestedAt)
	assert.Equal(t, StatusPlanning, mr.Status)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2026-01-02T03:04:05Z",
		"2026-01-02 03:04:05",
		"2026-01-02",
	} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2026, got.Year())
	}

	_, err := ParseTime("")
	assert.Error(t, err)
	_, err = ParseTime("31/01/2026")
	assert.Error(t, err)
}
