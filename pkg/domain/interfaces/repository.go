package interfaces

// Repository defines the interface for data persistence. Implementations
// must be safe for concurrent use from the foreground operations and the
// background sync worker.
type Repository interface {
	Note() NoteRepository
	Action() ActionRepository
	Master() MasterRepository
	Settings() SettingsRepository

	Close() error
}
