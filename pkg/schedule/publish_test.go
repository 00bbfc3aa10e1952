package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

func TestPublishRejectsIncompleteWeek(t *testing.T) {
	g := newTestGrid(t, nil)
	crew := testCrew()

	// fill 55 of the 56 slot-days
	for _, date := range g.Dates() {
		for i, slot := range g.Slots() {
			if date == "2025-07-13" && slot.ID == "boh-dish" {
				continue
			}
			require.NoError(t, g.Assign(date, slot.ID, crew[i]))
		}
	}

	before := g.Assignments("2025-07-13")
	_, err := NewPublishController(g).Publish("mgr_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIncompleteWeek)

	var incomplete *models.IncompleteWeekError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.OpenSlots)

	assert.Equal(t, StatusDraft, g.Status())
	assert.Equal(t, before, g.Assignments("2025-07-13"))
}

func TestPublishHappyPath(t *testing.T) {
	g := newTestGrid(t, nil)
	fillWeek(t, g)
	ctrl := NewPublishController(g)

	audit, err := ctrl.Publish("mgr_1")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, g.Status())
	assert.Equal(t, "publish", audit.Action)
	assert.Equal(t, "mgr_1", audit.Actor)
	assert.Equal(t, testWeekEnding, audit.WeekEnding)
	assert.NotEmpty(t, audit.ID)

	// publish is a one-shot transition
	_, err = ctrl.Publish("mgr_1")
	assert.ErrorIs(t, err, models.ErrLockedSchedule)
}

func TestReopenIsAnAuditedOverride(t *testing.T) {
	g := newTestGrid(t, nil)
	fillWeek(t, g)
	ctrl := NewPublishController(g)

	// draft weeks have nothing to reopen
	_, err := ctrl.Reopen("mgr_1", "oops")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ctrl.Publish("mgr_1")
	require.NoError(t, err)

	// a reason is mandatory
	_, err = ctrl.Reopen("mgr_1", "")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, StatusPublished, g.Status())

	audit, err := ctrl.Reopen("mgr_1", "late roster change for Saturday")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, g.Status())
	assert.Equal(t, "reopen", audit.Action)
	assert.Equal(t, "late roster change for Saturday", audit.Reason)

	// and the week is editable again
	require.NoError(t, g.Clear("2025-07-07", "foh-host"))
}

func TestStatusStringRoundTrip(t *testing.T) {
	assert.Equal(t, StatusDraft, ParseStatus(StatusDraft.String()))
	assert.Equal(t, StatusPublished, ParseStatus(StatusPublished.String()))
	assert.Equal(t, StatusDraft, ParseStatus("garbage"))
}
