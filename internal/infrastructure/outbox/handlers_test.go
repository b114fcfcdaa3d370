package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/crm"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/persistence"
)

type fakeCardManager struct {
	createdTitle string
	createdList  string
	movedCardID  string
	movedList    string
}

func (f *fakeCardManager) CreateCard(ctx context.Context, title, description, list string) (string, error) {
	f.createdTitle = title
	f.createdList = list
	return "card-99", nil
}

func (f *fakeCardManager) MoveCard(ctx context.Context, cardID, list string) error {
	f.movedCardID = cardID
	f.movedList = list
	return nil
}

type fakeEventManager struct {
	deletedEventID string
}

func (f *fakeEventManager) CreateEvent(ctx context.Context, title string, startsAt, endsAt time.Time, attendee string) (string, error) {
	return "evt-99", nil
}

func (f *fakeEventManager) DeleteEvent(ctx context.Context, eventID string) error {
	f.deletedEventID = eventID
	return nil
}

func setupLeadRepo(t *testing.T) crm.LeadRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&crm.Lead{}))
	return persistence.NewGormLeadRepository(db)
}

func TestTaskboardHandlerCreateWritesCardIDBack(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	leads := setupLeadRepo(t)

	lead, err := crm.NewLead(ownerID, "Jana Nováková")
	require.NoError(t, err)
	require.NoError(t, leads.Save(ctx, lead))

	payload, err := json.Marshal(shared.TaskboardCardPayload{
		Action: shared.TaskboardActionCreate,
		LeadID: lead.ID,
		Title:  lead.Name,
		List:   "new",
	})
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(ownerID, shared.SideEffectTaskboardCard, payload)

	cards := &fakeCardManager{}
	handler := NewTaskboardHandler(cards, leads)
	require.NoError(t, handler.Handle(ctx, entry))

	assert.Equal(t, "Jana Nováková", cards.createdTitle)

	stored, err := leads.FindByIDForOwner(ctx, ownerID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "card-99", stored.TaskboardCardID)
}

func TestTaskboardHandlerMoveUsesExistingCard(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	leads := setupLeadRepo(t)

	payload, err := json.Marshal(shared.TaskboardCardPayload{
		Action: shared.TaskboardActionMove,
		LeadID: uuid.New(),
		CardID: "card-7",
		List:   "won",
	})
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(ownerID, shared.SideEffectTaskboardCard, payload)

	cards := &fakeCardManager{}
	handler := NewTaskboardHandler(cards, leads)
	require.NoError(t, handler.Handle(ctx, entry))

	assert.Equal(t, "card-7", cards.movedCardID)
	assert.Equal(t, "won", cards.movedList)
	assert.Empty(t, cards.createdTitle)
}

func TestTaskboardHandlerCreateSurvivesDeletedLead(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	leads := setupLeadRepo(t)

	payload, err := json.Marshal(shared.TaskboardCardPayload{
		Action: shared.TaskboardActionCreate,
		LeadID: uuid.New(),
		Title:  "Gone",
		List:   "new",
	})
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(ownerID, shared.SideEffectTaskboardCard, payload)

	handler := NewTaskboardHandler(&fakeCardManager{}, leads)
	assert.NoError(t, handler.Handle(ctx, entry))
}

func TestCalendarHandlerDeleteRemovesEvent(t *testing.T) {
	ctx := context.Background()
	payload, err := json.Marshal(shared.CalendarEventPayload{
		Action:    shared.CalendarActionDelete,
		BookingID: uuid.New(),
		EventID:   "evt-123",
	})
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(uuid.New(), shared.SideEffectCalendarEvent, payload)

	events := &fakeEventManager{}
	handler := NewCalendarHandler(events, nil)
	require.NoError(t, handler.Handle(ctx, entry))

	assert.Equal(t, "evt-123", events.deletedEventID)
}
