package repository

import (
	"context"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

const profilesTable = "profiles"

type RESTProfileRepository struct {
	tables clients.TableClient
}

func NewRESTProfileRepository(tables clients.TableClient) ProfileRepository {
	return &RESTProfileRepository{tables: tables}
}

// Create inserts the profile and returns the stored row.
func (r *RESTProfileRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var created []models.Profile
	if err := r.tables.Insert(ctx, AccessToken(ctx), profilesTable, []*models.Profile{profile}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, ErrNotFound
	}
	return &created[0], nil
}

func (r *RESTProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profiles []models.Profile
	q := clients.Query{Filters: []clients.Filter{clients.Eq("id", id)}, Limit: 1}
	if err := r.tables.Select(ctx, AccessToken(ctx), profilesTable, q, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}
