package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the durable repository backend.
type Firestore struct {
	client   *firestore.Client
	note     *noteRepository
	action   *actionRepository
	master   *masterRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, e.g. for test isolation.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.note.collectionPrefix = prefix
		f.action.collectionPrefix = prefix
		f.master.collectionPrefix = prefix
		f.settings.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		note:     newNoteRepository(client),
		action:   newActionRepository(client),
		master:   newMasterRepository(client),
		settings: newSettingsRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Note() interfaces.NoteRepository {
	return f.note
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) Master() interfaces.MasterRepository {
	return f.master
}

func (f *Firestore) Settings() interfaces.SettingsRepository {
	return f.settings
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// nextID allocates a monotonically increasing identity from a counter
// document inside a transaction.
func nextID(ctx context.Context, client *firestore.Client, counterCollection, counterDoc string) (int64, error) {
	counterRef := client.Collection(counterCollection).Doc(counterDoc)

	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if isNotFound(err) {
				id = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": id,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		id = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: id},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate next ID")
	}

	return id, nil
}

func docID(id int64) string {
	return fmt.Sprintf("%d", id)
}
