package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// ProfileSource returns the canonical profile of an account. auth.Provider implements it.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

// Syncer mirrors identity provider accounts into the local users collection.
type Syncer struct {
	users   repository.UserRepository
	profile ProfileSource
}

func NewSyncer(users repository.UserRepository, profile ProfileSource) *Syncer {
	return &Syncer{users: users, profile: profile}
}

// EnsureUser returns the local user with the given ID, creating it from the provider profile on first sight.
func (s *Syncer) EnsureUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, qerrors.UserNotFoundError) {
		return nil, err
	}

	p, err := s.profile.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, p)
}

// Event is an identity provider webhook event.
type Event struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

type eventEmail struct {
	EmailAddress string `mapstructure:"email_address"`
}

type eventUser struct {
	ID             string       `mapstructure:"id"`
	EmailAddresses []eventEmail `mapstructure:"email_addresses"`
	FirstName      string       `mapstructure:"first_name"`
	LastName       string       `mapstructure:"last_name"`
	ImageURL       string       `mapstructure:"image_url"`
}

// HandleEvent applies a verified identity event. Creation is idempotent on the account ID, and event types
// other than user creation and update are ignored.
func (s *Syncer) HandleEvent(ctx context.Context, e *Event) error {
	switch e.Type {
	case EventUserCreated:
		p, err := eventProfile(e)
		if err != nil {
			return err
		}
		_, err = s.create(ctx, p)
		return err
	case EventUserUpdated:
		p, err := eventProfile(e)
		if err != nil {
			return err
		}
		err = s.users.UpdateUserProfile(ctx, p)
		if errors.Is(err, qerrors.UserNotFoundError) {
			// The update arrived before the creation event.
			_, err = s.create(ctx, p)
		}
		return err
	default:
		glog.Infof("ignoring identity event of type %v\n", e.Type)
		return nil
	}
}

// Helpers

// create stores a new user. A user created concurrently with the same ID counts as success.
func (s *Syncer) create(ctx context.Context, p *models.Profile) (*models.User, error) {
	u := models.NewUserFromProfile(p)
	err := s.users.CreateUser(ctx, u)
	if errors.Is(err, qerrors.UserExistsError) {
		glog.Infof("user %v already exists, reading stored record\n", p.ID)
		return s.users.GetUserByID(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func eventProfile(e *Event) (*models.Profile, error) {
	var data eventUser
	if err := mapstructure.Decode(e.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.InvalidEventError, err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", qerrors.InvalidEventError)
	}

	p := &models.Profile{
		ID:       data.ID,
		Name:     strings.TrimSpace(data.FirstName + " " + data.LastName),
		ImageURL: data.ImageURL,
	}
	if len(data.EmailAddresses) > 0 {
		p.Email = data.EmailAddresses[0].EmailAddress
	}
	return p, nil
}
