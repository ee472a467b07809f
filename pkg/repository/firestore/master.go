package firestore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type masterRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMasterRepository(client *firestore.Client) *masterRepository {
	return &masterRepository{client: client}
}

func (r *masterRepository) collection() string {
	return collectionName(r.collectionPrefix, "masters")
}

func (r *masterRepository) counterCollection() string {
	return collectionName(r.collectionPrefix, "counters")
}

// masterDocID makes (category, value) the document identity, which gives
// the uniqueness constraint for free.
func masterDocID(category types.Category, value string) string {
	return fmt.Sprintf("%s:%s", category, value)
}

type masterDoc struct {
	ID           int64  `firestore:"id"`
	Category     string `firestore:"category"`
	Value        string `firestore:"value"`
	Active       bool   `firestore:"active"`
	SystemLocked bool   `firestore:"system_locked"`
}

func (d *masterDoc) toModel() *model.MasterValue {
	return &model.MasterValue{
		ID:           d.ID,
		Category:     types.Category(d.Category),
		Value:        d.Value,
		Active:       d.Active,
		SystemLocked: d.SystemLocked,
	}
}

func (r *masterRepository) Upsert(ctx context.Context, value *model.MasterValue) error {
	ref := r.client.Collection(r.collection()).Doc(masterDocID(value.Category, value.Value))

	docSnap, err := ref.Get(ctx)
	if err != nil && !isNotFound(err) {
		return goerr.Wrap(err, "failed to get master value",
			goerr.V("category", value.Category), goerr.V("value", value.Value))
	}

	if err == nil {
		var existing masterDoc
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode master value")
		}
		_, err := ref.Update(ctx, []firestore.Update{
			{Path: "active", Value: true},
			{Path: "system_locked", Value: existing.SystemLocked || value.SystemLocked},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to update master value",
				goerr.V("category", value.Category), goerr.V("value", value.Value))
		}
		return nil
	}

	id, err := nextID(ctx, r.client, r.counterCollection(), "master_counter")
	if err != nil {
		return err
	}

	_, err = ref.Set(ctx, &masterDoc{
		ID:           id,
		Category:     value.Category.String(),
		Value:        value.Value,
		Active:       true,
		SystemLocked: value.SystemLocked,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create master value",
			goerr.V("category", value.Category), goerr.V("value", value.Value))
	}
	return nil
}

func (r *masterRepository) ListActive(ctx context.Context, category types.Category) ([]string, error) {
	entries, err := r.list(ctx, category)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	var values []string
	for _, m := range entries {
		if m.Active {
			values = append(values, m.Value)
		}
	}
	return values, nil
}

func (r *masterRepository) ListAll(ctx context.Context, category types.Category) ([]*model.MasterValue, error) {
	entries, err := r.list(ctx, category)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Active != entries[j].Active {
			return entries[i].Active
		}
		return strings.ToLower(entries[i].Value) < strings.ToLower(entries[j].Value)
	})
	return entries, nil
}

func (r *masterRepository) list(ctx context.Context, category types.Category) ([]*model.MasterValue, error) {
	iter := r.client.Collection(r.collection()).
		Where("category", "==", category.String()).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.MasterValue
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list master values",
				goerr.V("category", category))
		}

		var d masterDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode master value")
		}
		entries = append(entries, d.toModel())
	}
	return entries, nil
}

func (r *masterRepository) IsLocked(ctx context.Context, category types.Category, value string) (bool, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(masterDocID(category, value)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get master value",
			goerr.V("category", category), goerr.V("value", value))
	}

	var d masterDoc
	if err := docSnap.DataTo(&d); err != nil {
		return false, goerr.Wrap(err, "failed to decode master value")
	}
	return d.SystemLocked, nil
}

func (r *masterRepository) Deactivate(ctx context.Context, category types.Category, value string) error {
	locked, err := r.IsLocked(ctx, category, value)
	if err != nil {
		return err
	}
	if locked {
		return nil
	}

	_, err = r.client.Collection(r.collection()).Doc(masterDocID(category, value)).Update(ctx, []firestore.Update{
		{Path: "active", Value: false},
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to deactivate master value",
			goerr.V("category", category), goerr.V("value", value))
	}
	return nil
}
