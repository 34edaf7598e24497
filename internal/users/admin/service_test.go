// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/platform/apperr"
	"github.com/taibuivan/skinsight/internal/platform/sec"
	"github.com/taibuivan/skinsight/internal/users/admin"
	"github.com/taibuivan/skinsight/internal/users/auth"
)

// fakeUserRepository is an in-memory auth.UserRepository.
type fakeUserRepository struct {
	byID map[string]*auth.User
}

func newFakeUserRepository(users ...*auth.User) *fakeUserRepository {
	repo := &fakeUserRepository{byID: map[string]*auth.User{}}
	for _, user := range users {
		repo.byID[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepository) List(_ context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	users := make([]*auth.User, 0, len(r.byID))
	for _, user := range r.byID {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(user.Email), strings.ToLower(search)) {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	total := len(users)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return users[offset:end], total, nil
}

// fakeSearcher returns canned history search results.
type fakeSearcher struct {
	records   []*history.Record
	lastQuery string
}

func (s *fakeSearcher) SearchAll(_ context.Context, query string, limit, offset int) ([]*history.Record, int, error) {
	s.lastQuery = query
	return s.records, len(s.records), nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

/*
TestService_UpdateUser verifies partial updates and role validation.
*/
func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	seed := func() *fakeUserRepository {
		return newFakeUserRepository(&auth.User{
			ID:       "u1",
			Username: "ana",
			Email:    "ana@example.com",
			Role:     sec.RoleUser,
			IsActive: true,
		})
	}

	t.Run("promotes_to_admin", func(t *testing.T) {
		repo := seed()
		service := admin.NewService(repo, &fakeSearcher{})

		user, err := service.UpdateUser(ctx, "u1", admin.UpdateUserInput{Role: strPtr("admin")})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleAdmin, user.Role)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("renames_account", func(t *testing.T) {
		repo := seed()
		service := admin.NewService(repo, &fakeSearcher{})

		user, err := service.UpdateUser(ctx, "u1", admin.UpdateUserInput{Username: strPtr("ana-v2")})
		require.NoError(t, err)
		assert.Equal(t, "ana-v2", user.Username)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("deactivates_account", func(t *testing.T) {
		repo := seed()
		service := admin.NewService(repo, &fakeSearcher{})

		user, err := service.UpdateUser(ctx, "u1", admin.UpdateUserInput{IsActive: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, user.IsActive)
	})

	t.Run("nil_fields_leave_values_untouched", func(t *testing.T) {
		repo := seed()
		service := admin.NewService(repo, &fakeSearcher{})

		user, err := service.UpdateUser(ctx, "u1", admin.UpdateUserInput{})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleUser, user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("unknown_role_is_validation_error", func(t *testing.T) {
		service := admin.NewService(seed(), &fakeSearcher{})

		_, err := service.UpdateUser(ctx, "u1", admin.UpdateUserInput{Role: strPtr("superuser")})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("missing_user_is_not_found", func(t *testing.T) {
		service := admin.NewService(seed(), &fakeSearcher{})

		_, err := service.UpdateUser(ctx, "ghost", admin.UpdateUserInput{})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

/*
TestService_DeleteUser verifies removal and the self-deletion guard.
*/
func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	repo := newFakeUserRepository(
		&auth.User{ID: "admin1", Role: sec.RoleAdmin, IsActive: true},
		&auth.User{ID: "u1", Role: sec.RoleUser, IsActive: true},
	)
	service := admin.NewService(repo, &fakeSearcher{})

	t.Run("deletes_other_account", func(t *testing.T) {
		require.NoError(t, service.DeleteUser(ctx, "admin1", "u1"))

		_, err := repo.FindByID(ctx, "u1")
		assert.Error(t, err)
	})

	t.Run("self_deletion_is_rejected", func(t *testing.T) {
		err := service.DeleteUser(ctx, "admin1", "admin1")
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)

		_, findErr := repo.FindByID(ctx, "admin1")
		assert.NoError(t, findErr)
	})

	t.Run("missing_account_is_not_found", func(t *testing.T) {
		err := service.DeleteUser(ctx, "admin1", "ghost")
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

/*
TestService_ListUsers verifies pagination pass-through.
*/
func TestService_ListUsers(t *testing.T) {
	repo := newFakeUserRepository(
		&auth.User{ID: "a"},
		&auth.User{ID: "b"},
		&auth.User{ID: "c"},
	)
	service := admin.NewService(repo, &fakeSearcher{})

	users, total, err := service.ListUsers(context.Background(), "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, users, 2)
}

/*
TestService_ListUsers_Search verifies the username/email filter.
*/
func TestService_ListUsers_Search(t *testing.T) {
	repo := newFakeUserRepository(
		&auth.User{ID: "a", Username: "ana", Email: "ana@example.com"},
		&auth.User{ID: "b", Username: "bob", Email: "bob@example.com"},
		&auth.User{ID: "c", Username: "carol", Email: "ana.carol@example.com"},
	)
	service := admin.NewService(repo, &fakeSearcher{})

	users, total, err := service.ListUsers(context.Background(), "ana", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

/*
TestService_SearchHistory verifies delegation to the history searcher.
*/
func TestService_SearchHistory(t *testing.T) {
	searcher := &fakeSearcher{records: []*history.Record{{ID: "r1", Username: "ana"}}}
	service := admin.NewService(newFakeUserRepository(), searcher)

	records, total, err := service.SearchHistory(context.Background(), "rash", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "rash", searcher.lastQuery)
	assert.Equal(t, "ana", records[0].Username)
}
