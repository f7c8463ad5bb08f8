package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x_1@sub.domain.org"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "missing@tld", "@nouser.com", "spaces in@mail.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateDisplayName(t *testing.T) {
	assert.NoError(t, ValidateDisplayName("Pat"))
	assert.Error(t, ValidateDisplayName(""))

	long := make([]rune, 65)
	for i := range long {
		long[i] = 'x'
	}
	assert.Error(t, ValidateDisplayName(string(long)))
	assert.NoError(t, ValidateDisplayName(string(long[:64])))
}

func TestValidateAmounts(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(1))
	assert.Error(t, ValidatePositiveAmount(0))
	assert.Error(t, ValidatePositiveAmount(-5))

	assert.NoError(t, ValidateNonNegativeAmount(0))
	assert.NoError(t, ValidateNonNegativeAmount(100))
	assert.Error(t, ValidateNonNegativeAmount(-1))
}

func TestValidateStakes(t *testing.T) {
	assert.NoError(t, ValidateStakes(0, 0))
	assert.NoError(t, ValidateStakes(100, 200))
	assert.NoError(t, ValidateStakes(200, 200))
	assert.Error(t, ValidateStakes(200, 100))
	assert.Error(t, ValidateStakes(0, 200))
	assert.Error(t, ValidateStakes(-100, 200))
}

func TestAppErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{ErrInvalidAmount("bad"), "INVALID_AMOUNT", 400},
		{ErrAlreadyPending(RequestBuyInKind), "ALREADY_PENDING", 409},
		{ErrNotFound("game", "123"), "NOT_FOUND", 404},
		{ErrAlreadyResolved("123"), "ALREADY_RESOLVED", 409},
		{ErrUnauthorized("nope"), "UNAUTHORIZED", 403},
		{ErrGameClosed(), "GAME_CLOSED", 409},
		{ErrConflict("busy"), "CONFLICT", 409},
		{ErrValidation("bad"), "VALIDATION_ERROR", 400},
		{ErrInternal("boom", nil), "INTERNAL_ERROR", 500},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.wantCode, tc.err.Code)
		assert.Equal(t, tc.wantStatus, tc.err.Status)
		assert.Contains(t, tc.err.Error(), tc.wantCode)
	}
}

func TestNewGame(t *testing.T) {
	creatorID := uuid.New()
	g := NewGame(creatorID, "Host", 100, 200)

	assert.Equal(t, GameActive, g.Status)
	assert.Equal(t, creatorID, g.CreatorID)
	require.Len(t, g.History, 1)
	assert.Equal(t, EventCreated, g.History[0].Kind)
	assert.Empty(t, g.Players)
}

func TestGameClone(t *testing.T) {
	g := NewGame(uuid.New(), "Host", 0, 0)
	now := time.Now()
	g.Players = append(g.Players, Player{
		ID: uuid.New(), UserID: uuid.New(), DisplayName: "Pat",
		CurrentStack: 10000, TotalBuyIn: 10000,
		Status: PlayerCashedOut, CashedOutAt: &now,
	})
	g.BuyInRequests = append(g.BuyInRequests, NewRequest(RequestBuyInKind, uuid.New(), "Quinn", 5000))

	c := g.Clone()
	c.Players[0].CurrentStack = 1
	*c.Players[0].CashedOutAt = now.Add(time.Hour)
	c.BuyInRequests[0].Status = RequestDeclined
	c.History = append(c.History, GameEvent{Kind: EventEnded})

	assert.Equal(t, int64(10000), g.Players[0].CurrentStack)
	assert.Equal(t, now, *g.Players[0].CashedOutAt)
	assert.Equal(t, RequestPending, g.BuyInRequests[0].Status)
	assert.Len(t, g.History, 1)
}

func TestHasPendingRequest(t *testing.T) {
	g := NewGame(uuid.New(), "Host", 0, 0)
	userID := uuid.New()

	assert.False(t, g.HasPendingRequest(RequestBuyInKind, userID))

	g.BuyInRequests = append(g.BuyInRequests, NewRequest(RequestBuyInKind, userID, "Pat", 100))
	assert.True(t, g.HasPendingRequest(RequestBuyInKind, userID))
	assert.False(t, g.HasPendingRequest(RequestCashOutKind, userID))

	g.BuyInRequests[0].Status = RequestApproved
	assert.False(t, g.HasPendingRequest(RequestBuyInKind, userID))
}

func TestHistoryView(t *testing.T) {
	g := NewGame(uuid.New(), "Host", 0, 0)
	base := time.Now()
	for i := 1; i <= 3; i++ {
		g.History = AppendEvent(g.History, GameEvent{
			ID:          uuid.New(),
			Kind:        EventBuyIn,
			Description: string(rune('a' + i)),
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	view := g.HistoryView(0)
	require.Len(t, view, 4)
	for i := 1; i < len(view); i++ {
		assert.False(t, view[i].Timestamp.After(view[i-1].Timestamp))
	}
	assert.Equal(t, EventCreated, view[3].Kind)

	limited := g.HistoryView(2)
	require.Len(t, limited, 2)
	assert.Equal(t, view[0], limited[0])

	// The underlying journal is untouched
	assert.Equal(t, EventCreated, g.History[0].Kind)
}

func TestGameJSONRoundTrip(t *testing.T) {
	g := NewGame(uuid.New(), "Host", 100, 200)
	g.Players = append(g.Players, Player{
		ID: uuid.New(), UserID: uuid.New(), DisplayName: "Pat",
		CurrentStack: 10000, TotalBuyIn: 10000, Status: PlayerActive,
		JoinedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	g.CreatedAt = g.CreatedAt.UTC().Truncate(time.Microsecond)
	g.UpdatedAt = g.UpdatedAt.UTC().Truncate(time.Microsecond)
	g.History[0].Timestamp = g.History[0].Timestamp.UTC().Truncate(time.Microsecond)

	doc, err := json.Marshal(g)
	require.NoError(t, err)

	var back Game
	require.NoError(t, json.Unmarshal(doc, &back))
	assert.Equal(t, g.ID, back.ID)
	assert.Equal(t, g.Status, back.Status)
	assert.Equal(t, g.Players[0], back.Players[0])
	assert.Equal(t, g.History[0].Kind, back.History[0].Kind)
}

func TestPlayerNet(t *testing.T) {
	p := Player{CurrentStack: 15000, TotalBuyIn: 10000}
	assert.Equal(t, int64(5000), p.Net())

	p = Player{CurrentStack: 4000, TotalBuyIn: 10000}
	assert.Equal(t, int64(-6000), p.Net())
}
