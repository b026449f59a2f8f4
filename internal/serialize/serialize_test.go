package serialize

import (
	"StateDeck/internal/model"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func st(id string, t model.StateType, title, msg string, order int) State {
	return State{ID: id, ElementID: "e1", Type: t, Title: title, Message: msg, Locale: "en", SortOrder: order}
}

func TestStatesText_GroupsInFirstEncounterOrder(t *testing.T) {
	states := []State{
		st("1", model.StateHelper, "Hint", "Use 8+ characters.", 2),
		st("2", model.StateError, "Invalid email", "Enter a valid email address.", 1),
		st("3", model.StateHelper, "  ", "We never share your email.", 1),
	}
	want := "HELPER\n" +
		"- We never share your email.\n" +
		"- Hint: Use 8+ characters.\n" +
		"\n" +
		"ERROR\n" +
		"- Invalid email: Enter a valid email address."
	assert.Equal(t, want, StatesText(states, LangEN))
}

func TestStatesText_LocalizedAndEmpty(t *testing.T) {
	assert.Equal(t, "", StatesText(nil, LangEN))

	states := []State{st("1", model.StateWarning, "", "Caps Lock is on.", 1)}
	assert.Equal(t, "ПРЕДУПРЕЖДЕНИЕ\n- Caps Lock is on.", StatesText(states, LangRU))
	assert.Equal(t, "WARNING\n- Caps Lock is on.", StatesText(states, ParseLang("de")))
}

func TestStateCopyText(t *testing.T) {
	assert.Equal(t, "Body", StateCopyText("Title", "Body", CopyMessage))
	assert.Equal(t, "Title: Body", StateCopyText("Title", "Body", CopyTitleMessage))
	assert.Equal(t, "Body", StateCopyText("   ", "Body", CopyTitleMessage))
}

func TestStatesJSON_SortedAndIndented(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 20, 30, 456_000_000, time.FixedZone("MSK", 3*3600))
	e := FromElement(&model.Element{
		ID: "e1", Title: "Login", FigmaURL: "https://figma.com/file/K",
		ImagePath: "/uploads/a.png", ImageName: "a.png", ImageType: "image/png", ImageSize: 10,
		CreatedAt: created, UpdatedAt: created,
	})
	assert.Equal(t, "2024-03-01T07:20:30.456Z", e.CreatedAt)

	states := []State{
		st("b", model.StateInfo, "B", "second", 2),
		st("a", model.StateError, "A", "first", 1),
		st("c", model.StateError, "C", "tie", 2),
	}
	out, err := StatesJSON(e, states)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"element\": {\n    \"id\": \"e1\"")
	assert.Contains(t, out, "\"figmaFileKey\": null")

	gotElement, gotStates, err := ParseStatesJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, e, gotElement)
	require.Len(t, gotStates, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{gotStates[0].ID, gotStates[1].ID, gotStates[2].ID})

	// исходный срез не переупорядочен
	assert.Equal(t, "b", states[0].ID)
}

func TestFromProject_NullDescription(t *testing.T) {
	p := FromProject(&model.Project{ID: "p1", Name: "Core"})
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Core","description":null,"createdAt":"0001-01-01T00:00:00.000Z","updatedAt":"0001-01-01T00:00:00.000Z"}`, string(raw))
}

func TestTypeLabel_Unknown(t *testing.T) {
	assert.Equal(t, "custom", TypeLabel(LangRU, "custom"))
	assert.Equal(t, "Accessibility", TypeLabel(LangEN, model.StateAccessibility))
}

func TestGroups(t *testing.T) {
	groups := Groups([]State{
		st("1", model.StateInfo, "", "b", 3),
		st("2", "", "", "untyped", 1),
		st("3", model.StateInfo, "", "a", 1),
	}, LangRU)
	require.Len(t, groups, 2)
	assert.Equal(t, model.StateInfo, groups[0].Type)
	assert.Equal(t, "Информация", groups[0].Label)
	assert.Equal(t, "3", groups[0].States[0].ID)
	assert.Equal(t, model.StateOther, groups[1].Type)
}
