package memory

import (
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
)

// Memory is the in-memory repository used for development and tests.
type Memory struct {
	note     *noteRepository
	action   *actionRepository
	master   *masterRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note:     newNoteRepository(),
		action:   newActionRepository(),
		master:   newMasterRepository(),
		settings: newSettingsRepository(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) Master() interfaces.MasterRepository {
	return m.master
}

func (m *Memory) Settings() interfaces.SettingsRepository {
	return m.settings
}

func (m *Memory) Close() error {
	return nil
}
